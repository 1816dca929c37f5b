package common

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
)

// GenerateRandByteArray returns size bytes from the CSPRNG. It panics only
// if the system randomness source is broken, which is not recoverable.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter is the number of random bytes, so the resulting string
// is twice as long. It returns an error if the random source fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// MakeRandURLSafeString generates size random bytes encoded with unpadded
// URL-safe base64. Used for opaque refresh tokens.
func MakeRandURLSafeString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
