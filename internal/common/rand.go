package common

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateRandByteArray returns size cryptographically secure random bytes.
// It panics if the system random source fails, which is unrecoverable.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// MakeRandURLSafeString generates a URL-safe random string from size random
// bytes, encoded with unpadded base64url. With size=32 the result carries
// 256 bits of entropy in 43 characters.
func MakeRandURLSafeString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Useful for removing passphrases and derived keys from memory after use.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
