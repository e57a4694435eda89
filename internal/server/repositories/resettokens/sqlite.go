package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/secureledger/vault/internal/common"
	"github.com/secureledger/vault/internal/dbx"
	"github.com/secureledger/vault/internal/server/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// Expiry timestamps are stored as Unix seconds (UTC).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, t *models.ResetToken) error {
	query := `INSERT INTO reset_tokens (user_id, token, expires_at)
			VALUES (?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET token = excluded.token,
				expires_at = excluded.expires_at
	`
	_, err := r.db.ExecContext(ctx, query, t.UserID, t.Token, t.ExpiresAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert reset token: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByUserID(ctx context.Context, userID string) (*models.ResetToken, error) {
	query := `SELECT user_id, token, expires_at FROM reset_tokens WHERE user_id = ?`

	t := &models.ResetToken{}
	var expiresAt int64
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&t.UserID, &t.Token, &expiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	t.ExpiresAt = time.Unix(expiresAt, 0).UTC()
	return t, nil
}

func (r *SQLiteRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM reset_tokens WHERE user_id = ?`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	return nil
}
