// Package auth implements the access-token codec and the credential
// verifier used by the authentication services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Francortiz-137/taskflow-backend/internal/server/models"
)

// Claims is the typed claim set carried by access tokens: the registered
// claims (subject, issued-at, expiry) plus a numeric user id and a role.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
}

// TokenManager creates and parses short-lived HS256-signed access tokens.
// A tampered, stale, or malformed token is indistinguishable from a missing
// one to callers: every accessor reports absence instead of an error.
type TokenManager struct {
	secret   []byte
	validity time.Duration
}

func NewTokenManager(secret []byte, validity time.Duration) *TokenManager {
	return &TokenManager{secret: secret, validity: validity}
}

// Generate mints a signed token with subject, user id, and role claims.
// issued-at is now and expiry is now plus the configured lifetime.
func (m *TokenManager) Generate(userID int64, subject string, role models.UserRole) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.validity)),
		},
		UserID: userID,
		Role:   string(role),
	})

	return token.SignedString(m.secret)
}

// IsValid reports whether the token parses, its signature verifies against
// the server secret, and it has not expired. It never returns an error.
func (m *TokenManager) IsValid(tokenString string) bool {
	_, err := m.parse(tokenString)
	return err == nil
}

// ExtractSubject returns the subject claim, or false if the token does not
// verify or carries no subject.
func (m *TokenManager) ExtractSubject(tokenString string) (string, bool) {
	claims, err := m.parse(tokenString)
	if err != nil || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

// ExtractRole returns the role claim, or false if the token does not verify
// or the role is unknown.
func (m *TokenManager) ExtractRole(tokenString string) (models.UserRole, bool) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return "", false
	}
	return models.ParseUserRole(claims.Role)
}

// ExtractUserID returns the numeric user id claim, or false if the token
// does not verify or carries no user id.
func (m *TokenManager) ExtractUserID(tokenString string) (int64, bool) {
	claims, err := m.parse(tokenString)
	if err != nil || claims.UserID == 0 {
		return 0, false
	}
	return claims.UserID, true
}

func (m *TokenManager) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}
