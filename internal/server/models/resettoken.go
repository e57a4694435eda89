package models

import "time"

// ResetToken is the active password-reset token for a user. Tokens live in
// their own table, never sharing storage with the credential hint. Issuing a
// new token replaces the old one; a successful verification consumes it.
type ResetToken struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}
