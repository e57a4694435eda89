package biometrics

import (
	"context"
	"fmt"

	"github.com/secureledger/vault/internal/dbx"
	"github.com/secureledger/vault/internal/server/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, p *models.BiometricProfile) error {
	query := `INSERT INTO user_biometrics (user_id, face_encoding)
			VALUES (?, ?)
			ON CONFLICT(user_id) DO UPDATE SET face_encoding = excluded.face_encoding
	`
	if _, err := r.db.ExecContext(ctx, query, p.UserID, p.Encoding); err != nil {
		return fmt.Errorf("failed to upsert biometric profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.BiometricProfile, error) {
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
