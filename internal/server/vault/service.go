// Package vault implements encrypted credential storage: usernames and
// passwords are sealed with AES-GCM under a key derived once at startup
// and injected into the service.
package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/secureledger/vault/internal/common"
	"github.com/secureledger/vault/internal/cryptox"
	"github.com/secureledger/vault/internal/dbx"
	"github.com/secureledger/vault/internal/logging"
	"github.com/secureledger/vault/internal/server/models"
	"github.com/secureledger/vault/internal/server/repositories/repomanager"
)

type Service struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	key    []byte
	logger logging.Logger
}

// NewService builds a vault service. The key must be a 32-byte AES key; it is
// treated as read-only and shared safely between concurrent callers.
func NewService(db *sql.DB, rm repomanager.RepositoryManager, key []byte, logger logging.Logger) *Service {
	return &Service{db: db, rm: rm, key: key, logger: logger}
}

// Store encrypts username and password independently and upserts the
// credential record, fully replacing any prior one for userID. Replacing a
// credential also revokes the user's active reset token; both writes happen
// in one transaction.
//
// Returns common.ErrorValidation when userID, username, or password is empty.
func (s *Service) Store(ctx context.Context, userID, username, password, hint string) error {

	if userID == "" || username == "" || password == "" {
		return fmt.Errorf("%w: user_id, username and password are required", common.ErrorValidation)
	}

	usernameCipher, usernameNonce, err := cryptox.EncryptString(username, s.key)
	if err != nil {
		return fmt.Errorf("error encrypting username: %w", err)
	}

	passwordCipher, passwordNonce, err := cryptox.EncryptString(password, s.key)
	if err != nil {
		return fmt.Errorf("error encrypting password: %w", err)
	}

	cred := &models.Credential{
		UserID:           userID,
		UsernameCipher:   usernameCipher,
		UsernameNonce:    usernameNonce,
		PasswordCipher:   passwordCipher,
		PasswordNonce:    passwordNonce,
		Hint:             hint,
		BiometricEnabled: false,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.Credentials(tx).Upsert(ctx, cred); err != nil {
			return err
		}
		return s.rm.ResetTokens(tx).DeleteByUserID(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("error storing credential: %w", err)
	}

	s.logger.Info(ctx, "stored credentials", "user_id", userID)
	return nil
}

// Retrieve loads and decrypts the credential for userID.
//
// Returns common.ErrorNotFound when no record exists and
// common.ErrorDecryption when the ciphertext fails authentication (wrong key
// or corrupted data); garbage plaintext is never returned.
func (s *Service) Retrieve(ctx context.Context, userID string) (*models.PlainCredential, error) {

	cred, err := s.rm.Credentials(s.db).GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading credential: %w", err)
	}

	username, err := cryptox.DecryptString(cred.UsernameCipher, cred.UsernameNonce, s.key)
	if err != nil {
		s.logger.Warn(ctx, "credential failed authentication", "user_id", userID, "field", "username")
		return nil, fmt.Errorf("%w: username: %v", common.ErrorDecryption, err)
	}

	password, err := cryptox.DecryptString(cred.PasswordCipher, cred.PasswordNonce, s.key)
	if err != nil {
		s.logger.Warn(ctx, "credential failed authentication", "user_id", userID, "field", "password")
		return nil, fmt.Errorf("%w: password: %v", common.ErrorDecryption, err)
	}

	return &models.PlainCredential{
		Username:         username,
		Password:         password,
		Hint:             cred.Hint,
		BiometricEnabled: cred.BiometricEnabled,
	}, nil
}
