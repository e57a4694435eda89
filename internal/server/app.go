// Package server initializes and runs the vault application: it loads
// configuration, opens the storage backend, derives the encryption key, and
// starts the HTTP API with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/secureledger/vault/internal/common"
	"github.com/secureledger/vault/internal/cryptox"
	"github.com/secureledger/vault/internal/logging"
	"github.com/secureledger/vault/internal/server/biometric"
	"github.com/secureledger/vault/internal/server/config"
	vaulthttp "github.com/secureledger/vault/internal/server/http"
	"github.com/secureledger/vault/internal/server/repositories/repomanager"
	"github.com/secureledger/vault/internal/server/resettoken"
	"github.com/secureledger/vault/internal/server/vault"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	httpSrv *vaulthttp.Server
}

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// promptPassphrase reads the master passphrase from the terminal without
// echo. Used when the passphrase is not supplied via config.
func promptPassphrase() ([]byte, error) {
	fmt.Fprint(os.Stderr, "Enter master passphrase: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite open error: %w", err)
		}
		// modernc sqlite is not safe for concurrent writers on one file.
		db.SetMaxOpenConns(1)
		return db, repomanager.NewSQLiteRepositoryManager(), nil
	case config.BackendPostgres:
		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres open error: %w", err)
		}
		return db, repomanager.NewPostgresRepositoryManager(), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %q", cfg.StorageBackend)
	}
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.New(cfg.LogLevel)

	db, rm, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	passphrase := []byte(cfg.MasterPassphrase)
	if len(passphrase) == 0 {
		passphrase, err = promptPassphrase()
		if err != nil {
			return nil, fmt.Errorf("passphrase prompt error: %w", err)
		}
	}

	// The key is derived once and shared read-only; the passphrase is not
	// needed afterwards.
	key := cryptox.DeriveMasterKey(passphrase, []byte(cfg.KeySalt))
	common.WipeByteArray(passphrase)

	var extractor biometric.Extractor
	if cfg.ExtractorEndpoint != "" {
		extractor = biometric.NewHTTPExtractor(cfg.ExtractorEndpoint)
	} else {
		extractor = noExtractor{}
	}

	vaultSvc := vault.NewService(db, rm, key, logger)
	tokenMgr := resettoken.NewManager(db, rm, cfg.ResetTokenTTL, logger)
	matcher := biometric.NewMatcher(db, rm, extractor, cfg.BiometricThreshold, logger)

	httpSrv := vaulthttp.NewServer(cfg.EndpointAddr, vaultSvc, tokenMgr, matcher, logger)

	return &App{config: cfg, logger: logger, db: db, httpSrv: httpSrv}, nil
}

// noExtractor serves deployments without a face-encoding collaborator:
// biometric endpoints fail with an extraction error instead of crashing.
type noExtractor struct{}

func (noExtractor) Encodings(ctx context.Context, image []byte) ([][]float64, error) {
	return nil, fmt.Errorf("no extractor endpoint configured")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr, "backend", app.config.StorageBackend)

	app.initSignalHandler(cancelFunc)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- app.httpSrv.Listen()
	}()

	select {
	case err := <-srvErr:
		if err != nil {
			app.logger.Error(ctx, "server error", "error", err)
		}
	case <-ctx.Done():
		app.logger.Info(ctx, "shutdown signal received")
		if err := app.httpSrv.Shutdown(context.Background()); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close error", "error", err)
	}
}
