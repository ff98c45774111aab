// Package auth guards the admin API with a single bcrypt-hashed key.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// KeyPrefix marks admin keys so they are recognisable in logs and configs.
const KeyPrefix = "namegen_"

// AdminKey is a freshly generated admin key. Only Hash should be stored.
type AdminKey struct {
	Plaintext string
	Hash      string
}

// GenerateAdminKey creates a key of the form "namegen_" followed by 32
// URL-safe random characters, together with its bcrypt hash.
func GenerateAdminKey() (AdminKey, error) {
	b := make([]byte, 24) // 24 bytes -> 32 base64url chars
	if _, err := rand.Read(b); err != nil {
		return AdminKey{}, fmt.Errorf("generating random bytes: %w", err)
	}

	plaintext := KeyPrefix + base64.RawURLEncoding.EncodeToString(b)
	hash, err := HashKey(plaintext)
	if err != nil {
		return AdminKey{}, err
	}
	return AdminKey{Plaintext: plaintext, Hash: hash}, nil
}

// HashKey returns the bcrypt hash of plaintext.
func HashKey(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing key: %w", err)
	}
	return string(h), nil
}

// CheckKey reports whether plaintext matches hash.
func CheckKey(hash, plaintext string) bool {
	if hash == "" || plaintext == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
