package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/secureledger/vault/internal/common"
	"github.com/secureledger/vault/internal/dbx"
	"github.com/secureledger/vault/internal/server/models"
)

// PostgresRepository implements Repository over PostgreSQL.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, t *models.ResetToken) error {
	query := `INSERT INTO reset_tokens (user_id, token, expires_at)
			VALUES ($1, $2, $3)
			ON CONFLICT(user_id) DO UPDATE SET token = excluded.token,
				expires_at = excluded.expires_at
	`
	_, err := r.db.ExecContext(ctx, query, t.UserID, t.Token, t.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to upsert reset token: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.ResetToken, error) {
	query := `SELECT user_id, token, expires_at FROM reset_tokens WHERE user_id = $1`

	t := &models.ResetToken{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&t.UserID, &t.Token, &t.ExpiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM reset_tokens WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	return nil
}
