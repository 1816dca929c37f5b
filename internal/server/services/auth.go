// This file implements AuthService: registration, credential verification,
// access-token minting, and the refresh/logout flows built on top of
// RefreshTokenService.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Francortiz-137/taskflow-backend/internal/common"
	"github.com/Francortiz-137/taskflow-backend/internal/logging"
	"github.com/Francortiz-137/taskflow-backend/internal/server/auth"
	"github.com/Francortiz-137/taskflow-backend/internal/server/config"
	"github.com/Francortiz-137/taskflow-backend/internal/server/models"
	"github.com/Francortiz-137/taskflow-backend/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult is what a successful credential check yields: the account and
// an opaque refresh token. Access tokens are only minted by Refresh.
type LoginResult struct {
	User         *models.User
	RefreshToken string
}

// AuthService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and start a session
// - Refresh: rotate refresh tokens and mint new access tokens
// - Logout: end a session
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      *auth.TokenManager
	refresh     *RefreshTokenService
	logger      logging.Logger
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, refresh *RefreshTokenService, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      auth.NewBcryptHasher(),
		tokens:      auth.NewTokenManager([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration),
		refresh:     refresh,
		logger:      logger,
	}
}

// TokenManager exposes the access-token codec for transport middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Register creates a new user account with the USER role. Duplicate emails
// yield common.ErrorAlreadyExists, malformed input common.ErrorValidation.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || password == "" {
		return nil, common.ErrorValidation
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, common.ErrorValidation
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login verifies the provided credentials and, on success, opens a session
// by issuing a refresh token. Every failure mode reads the same to the
// caller: common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !s.hasher.Matches(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	refreshToken, err := s.refresh.Issue(ctx, user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &LoginResult{User: user, RefreshToken: refreshToken}, nil
}

// Refresh rotates the presented refresh token and mints a new access token
// for its owner.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	rotation, err := s.refresh.Rotate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, rotation.UserID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	access, err := s.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: rotation.RefreshToken}, nil
}

// Logout revokes the presented refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.refresh.Revoke(ctx, refreshToken)
}

// Me returns the account behind an authenticated identity.
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}
