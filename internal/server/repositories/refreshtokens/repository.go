// Package refreshtokens declares the server-side repository contract for
// the persistent refresh-token records backing rotation and reuse
// detection.
package refreshtokens

import (
	"context"
	"time"

	"github.com/Francortiz-137/taskflow-backend/internal/server/models"
)

// Repository defines operations for issuing, consuming, and revoking
// refresh tokens. Rows are never deleted: revoked rows are what makes
// replayed tokens detectable.
type Repository interface {
	// Create stores a new token digest for userID expiring at expiresAt.
	Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error

	// Consume atomically flips revoked to true on the live row matching
	// tokenHash and returns it. This is a compare-and-swap: of any number
	// of concurrent callers presenting the same digest, exactly one gets
	// the row; the rest get common.ErrorNotFound.
	Consume(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// FindRevoked returns the already-revoked row matching tokenHash, or
	// common.ErrorNotFound.
	FindRevoked(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// Revoke flips revoked on a live row matching tokenHash. Matching
	// nothing is not an error; logout must be idempotent.
	Revoke(ctx context.Context, tokenHash string) error

	// RevokeAllForUser flips revoked on every live row owned by userID
	// (reuse-attack containment).
	RevokeAllForUser(ctx context.Context, userID int64) error
}
