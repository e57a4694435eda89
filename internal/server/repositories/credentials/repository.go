// Package credentials persists encrypted user credentials.
package credentials

import (
	"context"

	"github.com/secureledger/vault/internal/server/models"
)

// Repository is the persistence contract for credentials. Upsert is atomic
// per user_id: concurrent writers never observe a half-written record.
type Repository interface {
	// Upsert inserts or fully replaces the credential for c.UserID.
	Upsert(ctx context.Context, c *models.Credential) error
	// GetByUserID returns the stored credential or common.ErrorNotFound.
	GetByUserID(ctx context.Context, userID string) (*models.Credential, error)
	// SetBiometricEnabled flips the biometric flag. Missing user is a no-op.
	SetBiometricEnabled(ctx context.Context, userID string, enabled bool) error
}
