// Package auth implements the trust boundary of the application: password
// hashing, session token issuance and verification, and session revocation.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const saltBytes = 16

// HashPassword derives a fresh random salt and the keyed digest of the
// plaintext. A new salt is generated on every call, so changing a password
// never reuses the previous salt.
func HashPassword(plaintext string) (salt, digest string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt = hex.EncodeToString(raw)
	return salt, computeDigest(salt, plaintext), nil
}

// VerifyPassword recomputes the keyed digest for the plaintext and compares
// it to the stored digest in constant time.
func VerifyPassword(plaintext, salt, digest string) bool {
	return hmac.Equal([]byte(computeDigest(salt, plaintext)), []byte(digest))
}

func computeDigest(salt, plaintext string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}
