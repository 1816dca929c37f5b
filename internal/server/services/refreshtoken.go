// Package services contains server-side business logic. This file implements
// RefreshTokenService, which owns the refresh-token lifecycle: issuance,
// single-use rotation, replay containment, and revocation.
package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Francortiz-137/taskflow-backend/internal/common"
	"github.com/Francortiz-137/taskflow-backend/internal/dbx"
	"github.com/Francortiz-137/taskflow-backend/internal/logging"
	"github.com/Francortiz-137/taskflow-backend/internal/server/config"
	"github.com/Francortiz-137/taskflow-backend/internal/server/repositories/repomanager"
)

// refreshTokenByteLength is the entropy of an opaque refresh token before
// base64 encoding.
const refreshTokenByteLength = 48

// RotationResult carries the outcome of a successful rotation: the owner of
// the consumed token and its replacement.
type RotationResult struct {
	UserID       int64
	RefreshToken string
}

// RefreshTokenService issues, rotates, and revokes opaque refresh tokens.
// Only SHA-256 digests of tokens are stored; the plaintext exists solely in
// the response that delivered it to the client.
type RefreshTokenService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	refreshTokenValidityDuration time.Duration
	logger                       logging.Logger
}

// NewRefreshTokenService constructs a RefreshTokenService using repositories
// and server config.
func NewRefreshTokenService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *RefreshTokenService {
	return &RefreshTokenService{
		db:                           db,
		repomanager:                  m,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		logger:                       logger,
	}
}

// hashToken digests a plaintext token for storage and lookup.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Issue mints a fresh refresh token for userID and stores its digest.
// The plaintext is returned exactly once.
func (s *RefreshTokenService) Issue(ctx context.Context, userID int64) (string, error) {
	return s.issue(ctx, s.db, userID)
}

func (s *RefreshTokenService) issue(ctx context.Context, db dbx.DBTX, userID int64) (string, error) {
	token, err := common.MakeRandURLSafeString(refreshTokenByteLength)
	if err != nil {
		return "", common.ErrorInternal
	}
	expiresAt := time.Now().Add(s.refreshTokenValidityDuration)

	repo := s.repomanager.RefreshTokens(db)
	if err := repo.Create(ctx, userID, hashToken(token), expiresAt); err != nil {
		return "", fmt.Errorf("error storing refresh token: %w", err)
	}
	return token, nil
}

// Rotate consumes refreshToken and issues a replacement for the same user,
// both inside one transaction. Exactly one of any number of concurrent
// presentations of the same token succeeds.
//
// Failure modes:
//   - token digest matches no live row and no revoked row: ErrInvalidRefreshToken
//   - token digest matches a revoked row: the presented token was already
//     rotated once, so every live token of its owner is revoked and
//     ErrRefreshTokenReuse is returned
//   - token matched a live row but is past its expiry: the transaction rolls
//     back (the row stays live) and ErrRefreshTokenExpired is returned
func (s *RefreshTokenService) Rotate(ctx context.Context, refreshToken string) (*RotationResult, error) {
	tokenHash := hashToken(refreshToken)

	var result *RotationResult
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.RefreshTokens(tx)

		token, err := repo.Consume(ctx, tokenHash)
		if err != nil {
			return err
		}
		if token.IsExpired(time.Now()) {
			return common.ErrRefreshTokenExpired
		}

		next, err := s.issue(ctx, tx, token.UserID)
		if err != nil {
			return err
		}
		result = &RotationResult{UserID: token.UserID, RefreshToken: next}
		return nil
	})
	if err == nil {
		return result, nil
	}
	if errors.Is(err, common.ErrRefreshTokenExpired) {
		return nil, common.ErrRefreshTokenExpired
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	// No live row. A revoked row with the same digest means this token was
	// already spent once: treat the replay as credential theft and kill the
	// whole session family.
	revoked, findErr := s.repomanager.RefreshTokens(s.db).FindRevoked(ctx, tokenHash)
	if findErr != nil {
		if errors.Is(findErr, common.ErrorNotFound) {
			return nil, common.ErrInvalidRefreshToken
		}
		return nil, findErr
	}

	s.logger.Warn(ctx, "refresh token reuse detected, revoking all sessions", "user_id", revoked.UserID)
	if err := s.repomanager.RefreshTokens(s.db).RevokeAllForUser(ctx, revoked.UserID); err != nil {
		return nil, err
	}
	return nil, common.ErrRefreshTokenReuse
}

// Revoke invalidates refreshToken. Unknown or already-revoked tokens are
// not an error; logout is idempotent.
func (s *RefreshTokenService) Revoke(ctx context.Context, refreshToken string) error {
	repo := s.repomanager.RefreshTokens(s.db)
	return repo.Revoke(ctx, hashToken(refreshToken))
}
