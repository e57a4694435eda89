// Package repomanager vends repository implementations for a storage backend
// and exposes its schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/secureledger/vault/internal/dbx"
	"github.com/secureledger/vault/internal/server/repositories/biometrics"
	"github.com/secureledger/vault/internal/server/repositories/credentials"
	"github.com/secureledger/vault/internal/server/repositories/resettokens"
)

// RepositoryManager constructs repositories bound to a DBTX, so services can
// use the same constructors with a plain connection or inside a transaction.
type RepositoryManager interface {
	Credentials(db dbx.DBTX) credentials.Repository
	ResetTokens(db dbx.DBTX) resettokens.Repository
	Biometrics(db dbx.DBTX) biometrics.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
