package models

import "time"

// RefreshToken is the persistent record of an issued refresh token. Only a
// digest of the opaque token value is stored; the plaintext is handed to
// the client exactly once and never retrievable again.
type RefreshToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// IsExpired reports whether the token is past its fixed expiry at the given
// instant. Expiry is set at creation and never extended.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
