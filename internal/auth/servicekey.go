package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashServiceKey produces a bcrypt hash suitable for SERVICE_KEY_HASH.
func HashServiceKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyServiceKey reports whether the presented key matches the
// configured bcrypt hash.
func VerifyServiceKey(hash, key string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
