// Package biometrics persists face-encoding profiles, one per user.
package biometrics

import (
	"context"

	"github.com/secureledger/vault/internal/server/models"
)

// Repository is the persistence contract for biometric profiles.
type Repository interface {
	// Upsert stores p, replacing any prior profile for p.UserID.
	Upsert(ctx context.Context, p *models.BiometricProfile) error
	// GetAll returns every stored profile. No ordering guarantee.
	GetAll(ctx context.Context) ([]models.BiometricProfile, error)
}
