// Package biometric enrolls face encodings and matches probe images against
// the stored profiles.
package biometric

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/secureledger/vault/internal/common"
	"github.com/secureledger/vault/internal/dbx"
	"github.com/secureledger/vault/internal/logging"
	"github.com/secureledger/vault/internal/server/models"
	"github.com/secureledger/vault/internal/server/repositories/repomanager"
)

type Matcher struct {
	db        *sql.DB
	rm        repomanager.RepositoryManager
	extractor Extractor
	threshold float64
	logger    logging.Logger
}

// NewMatcher builds a biometric matcher. threshold is the maximum Euclidean
// distance between encodings still considered the same face.
func NewMatcher(db *sql.DB, rm repomanager.RepositoryManager, extractor Extractor, threshold float64, logger logging.Logger) *Matcher {
	return &Matcher{db: db, rm: rm, extractor: extractor, threshold: threshold, logger: logger}
}

// extractOne runs the collaborator and applies the exactly-one-face rule:
// zero faces is common.ErrorNoFaceDetected; with several faces the first
// encoding in detector order wins (the documented tie-break).
func (m *Matcher) extractOne(ctx context.Context, image []byte) ([]float64, error) {
	encodings, err := m.extractor.Encodings(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorExtraction, err)
	}
	if len(encodings) == 0 {
		return nil, common.ErrorNoFaceDetected
	}
	return encodings[0], nil
}

// Enroll extracts one face encoding from image and stores it as the user's
// biometric profile, replacing any prior one. When a credential exists for
// userID its biometric flag is switched on in the same transaction.
func (m *Matcher) Enroll(ctx context.Context, userID string, image []byte) error {

	if userID == "" {
		return fmt.Errorf("%w: user_id is required", common.ErrorValidation)
	}

	encoding, err := m.extractOne(ctx, image)
	if err != nil {
		return err
	}

	profile := &models.BiometricProfile{
		UserID:   userID,
		Encoding: EncodeVector(encoding),
	}

	err = dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := m.rm.Biometrics(tx).Upsert(ctx, profile); err != nil {
			return err
		}
		return m.rm.Credentials(tx).SetBiometricEnabled(ctx, userID, true)
	})
	if err != nil {
		return fmt.Errorf("error storing biometric profile: %w", err)
	}

	m.logger.Info(ctx, "biometric profile enrolled", "user_id", userID)
	return nil
}

// Authenticate extracts one encoding from the probe image and compares it
// against every stored profile by Euclidean distance on the raw vectors.
// The closest profile under the threshold wins; if none qualifies the result
// is common.ErrorNoMatch. Profiles with an unreadable or mismatched-dimension
// encoding are skipped.
func (m *Matcher) Authenticate(ctx context.Context, image []byte) (string, error) {

	probe, err := m.extractOne(ctx, image)
	if err != nil {
		return "", err
	}

	profiles, err := m.rm.Biometrics(m.db).GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("error loading biometric profiles: %w", err)
	}

	bestUser := ""
	bestDistance := 0.0

	for _, p := range profiles {
		stored, err := DecodeVector(p.Encoding)
		if err != nil {
			m.logger.Warn(ctx, "skipping unreadable biometric profile", "user_id", p.UserID)
			continue
		}
		d, err := EuclideanDistance(probe, stored)
		if err != nil {
			m.logger.Warn(ctx, "skipping profile with mismatched dimension", "user_id", p.UserID)
			continue
		}
		if d < m.threshold && (bestUser == "" || d < bestDistance) {
			bestUser = p.UserID
			bestDistance = d
		}
	}

	if bestUser == "" {
		return "", common.ErrorNoMatch
	}

	m.logger.Info(ctx, "biometric match", "user_id", bestUser)
	return bestUser, nil
}
