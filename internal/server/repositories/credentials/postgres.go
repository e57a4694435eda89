package credentials

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

func (r *PostgresRepository) Upsert(ctx context.Context, c *models.Credential) error {
	query := `INSERT INTO user_credentials (user_id, username_cipher, username_nonce, password_cipher, password_nonce, hint, biometric_enabled)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT(user_id) DO UPDATE SET username_cipher = excluded.username_cipher,
				username_nonce = excluded.username_nonce,
				password_cipher = excluded.password_cipher,
				password_nonce = excluded.password_nonce,
				hint = excluded.hint,
				biometric_enabled = excluded.biometric_enabled
	`
	_, err := r.db.ExecContext(ctx, query,
		c.UserID, c.UsernameCipher, c.UsernameNonce, c.PasswordCipher, c.PasswordNonce, c.Hint, c.BiometricEnabled)
	if err != nil {
		return fmt.Errorf("failed to upsert credential: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Credential, error) {
	query := `SELECT user_id, username_cipher, username_nonce, password_cipher, password_nonce, hint, biometric_enabled
			FROM user_credentials WHERE user_id = $1`

	c := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&c.UserID, &c.UsernameCipher, &c.UsernameNonce, &c.PasswordCipher, &c.PasswordNonce, &c.Hint, &c.BiometricEnabled)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) SetBiometricEnabled(ctx context.Context, userID string, enabled bool) error {
	query := `UPDATE user_credentials SET biometric_enabled = $1 WHERE user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, enabled, userID); err != nil {
		return fmt.Errorf("failed to update biometric flag: %w", err)
	}
	return nil
}
