package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost the portal has always used for user
// passwords. Raising it invalidates no existing hashes (bcrypt encodes
// the cost in the hash) but new hashes must stay comparable in latency.
const bcryptCost = 10

// HashPassword hashes a plaintext password for storage.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored bcrypt hash.
// A mismatch is not an error, it is simply false; malformed hashes are
// also reported as false so callers never learn why verification failed.
func VerifyPassword(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}
