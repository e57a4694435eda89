// Package resettoken issues and verifies time-limited password-reset tokens.
package resettoken

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/secureledger/vault/internal/common"
	"github.com/secureledger/vault/internal/logging"
	"github.com/secureledger/vault/internal/server/models"
	"github.com/secureledger/vault/internal/server/repositories/repomanager"
)

// tokenSize is the number of random bytes per token (256 bits of entropy).
const tokenSize = 32

type Manager struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	ttl    time.Duration
	logger logging.Logger

	// now is a seam for expiry tests.
	now func() time.Time
}

func NewManager(db *sql.DB, rm repomanager.RepositoryManager, ttl time.Duration, logger logging.Logger) *Manager {
	return &Manager{db: db, rm: rm, ttl: ttl, logger: logger, now: time.Now}
}

// Issue generates a fresh URL-safe reset token for userID valid for the
// configured TTL, replacing any previously issued token. The raw token is the
// sole proof of possession: it is returned to the caller once and never
// logged.
//
// Returns common.ErrorNotFound when no credential exists for userID.
func (m *Manager) Issue(ctx context.Context, userID string) (*models.ResetToken, error) {

	if _, err := m.rm.Credentials(m.db).GetByUserID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			m.logger.Warn(ctx, "reset requested for unknown user", "user_id", userID)
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading credential: %w", err)
	}

	token, err := common.MakeRandURLSafeString(tokenSize)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	t := &models.ResetToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: m.now().Add(m.ttl),
	}

	if err := m.rm.ResetTokens(m.db).Upsert(ctx, t); err != nil {
		return nil, fmt.Errorf("error storing token: %w", err)
	}

	m.logger.Info(ctx, "issued reset token", "user_id", userID, "expires_at", t.ExpiresAt)
	return t, nil
}

// Verify reports whether token is the currently active, unexpired reset token
// for userID. The comparison is constant-time in the token length. A missing,
// mismatched, or expired token yields (false, nil); only storage failures
// produce an error.
//
// A successful verification consumes the token, so tokens are single-use:
// a verified token cannot be replayed before its expiry.
func (m *Manager) Verify(ctx context.Context, userID, token string) (bool, error) {

	stored, err := m.rm.ResetTokens(m.db).GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error loading token: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(stored.Token)) != 1 {
		return false, nil
	}

	if !m.now().Before(stored.ExpiresAt) {
		return false, nil
	}

	if err := m.rm.ResetTokens(m.db).DeleteByUserID(ctx, userID); err != nil {
		return false, fmt.Errorf("error consuming token: %w", err)
	}

	m.logger.Info(ctx, "reset token verified", "user_id", userID)
	return true, nil
}
