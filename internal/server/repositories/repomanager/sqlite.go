package repomanager

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	"github.com/secureledger/vault/internal/dbx"
	"github.com/secureledger/vault/internal/server/migrations"
	"github.com/secureledger/vault/internal/server/repositories/biometrics"
	"github.com/secureledger/vault/internal/server/repositories/credentials"
	"github.com/secureledger/vault/internal/server/repositories/resettokens"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repository implementations.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Credentials(db dbx.DBTX) credentials.Repository {
	return credentials.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) ResetTokens(db dbx.DBTX) resettokens.Repository {
	return resettokens.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Biometrics(db dbx.DBTX) biometrics.Repository {
	return biometrics.NewSQLiteRepository(db)
}

// RunMigrations sets up goose with the embedded sqlite migrations and runs
// them against the provided database connection.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, "sqlite")
}
