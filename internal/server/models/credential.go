// Package models defines the typed records persisted by the vault.
package models

// Credential is a stored login secret for one user. Username and password are
// kept as AES-GCM ciphertext with their nonces; the hint stays plaintext.
// There is at most one credential per user and an upsert fully replaces it.
type Credential struct {
	UserID           string
	UsernameCipher   []byte
	UsernameNonce    []byte
	PasswordCipher   []byte
	PasswordNonce    []byte
	Hint             string
	BiometricEnabled bool
}

// PlainCredential is the decrypted view returned to callers of the vault.
type PlainCredential struct {
	Username         string
	Password         string
	Hint             string
	BiometricEnabled bool
}
