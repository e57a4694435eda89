// Package resettokens persists active password-reset tokens, one per user.
package resettokens

import (
	"context"

	"github.com/secureledger/vault/internal/server/models"
)

// Repository is the persistence contract for reset tokens.
type Repository interface {
	// Upsert stores t, replacing any prior token for t.UserID.
	Upsert(ctx context.Context, t *models.ResetToken) error
	// GetByUserID returns the stored token or common.ErrorNotFound.
	GetByUserID(ctx context.Context, userID string) (*models.ResetToken, error)
	// DeleteByUserID removes the token for userID. Missing token is a no-op.
	DeleteByUserID(ctx context.Context, userID string) error
}
