package biometrics

import (
	"context"
	"fmt"

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

func (r *PostgresRepository) Upsert(ctx context.Context, p *models.BiometricProfile) error {
	query := `INSERT INTO user_biometrics (user_id, face_encoding)
			VALUES ($1, $2)
			ON CONFLICT(user_id) DO UPDATE SET face_encoding = excluded.face_encoding
	`
	if _, err := r.db.ExecContext(ctx, query, p.UserID, p.Encoding); err != nil {
		return fmt.Errorf("failed to upsert biometric profile: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]models.BiometricProfile, error) {
	query := `SELECT user_id, face_encoding FROM user_biometrics`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select biometric profiles: %w", err)
	}
	defer rows.Close()

	var result []models.BiometricProfile
	for rows.Next() {
		var item models.BiometricProfile
		if err := rows.Scan(&item.UserID, &item.Encoding); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
