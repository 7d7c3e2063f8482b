package utils

import "golang.org/x/crypto/bcrypt"

// bcrypt ignores input past 72 bytes and newer library versions reject it
// outright, so passwords are truncated to the byte limit before hashing and
// verification.
const bcryptMaxBytes = 72

func truncateForBcrypt(plain string) []byte {
	b := []byte(plain)
	if len(b) > bcryptMaxBytes {
		b = b[:bcryptMaxBytes]
	}
	return b
}

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword(truncateForBcrypt(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncateForBcrypt(plain)) == nil
}
