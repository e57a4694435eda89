// Package cryptox implements the symmetric primitives used by the vault:
// AES-GCM field encryption and argon2id master-key derivation.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"golang.org/x/crypto/argon2"
)

// KeySize is the AES-256 key length used throughout the vault.
const KeySize = 32

// DeriveMasterKey derives a 32-byte encryption key from a passphrase and salt
// using argon2id. The derivation is deterministic, so the same passphrase and
// salt always produce the same key and ciphertext written before a restart
// stays readable after it.
func DeriveMasterKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// EncryptString encrypts plaintext with AES-GCM under the given key.
//
// The key must be a valid AES key length (16, 24, or 32 bytes). A fresh
// random 12-byte nonce is generated per call; ciphertext and nonce are
// returned separately and both are required for decryption.
func EncryptString(plaintext string, key []byte) (ciphertext, nonce []byte, err error) {

	nonce = make([]byte, 12)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, nonce, []byte(plaintext), nil)

	return ciphertext, nonce, nil
}

// DecryptString decrypts ciphertext produced by EncryptString.
//
// The key and nonce must match the ones used at encryption time. GCM
// authenticates the ciphertext, so a wrong key or tampered data returns an
// error rather than garbage plaintext.
func DecryptString(ciphertext, nonce, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
