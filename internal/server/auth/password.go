package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher checks a presented plaintext secret against a stored
// one-way hash. Implementations must never log either input.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Matches(plaintext string, hash string) bool
}

// BcryptHasher hashes with bcrypt; the salt lives inside the encoded hash
// and the comparison is constant-time.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Matches(plaintext string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
