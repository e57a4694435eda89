package biometric

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secureledger/vault/internal/common"
	"github.com/secureledger/vault/internal/dbx"
	"github.com/secureledger/vault/internal/logging"
	"github.com/secureledger/vault/internal/server/models"
	"github.com/secureledger/vault/internal/server/repositories/biometrics"
	"github.com/secureledger/vault/internal/server/repositories/credentials"
	"github.com/secureledger/vault/internal/server/repositories/resettokens"
)

// --- fakes ---

type stubExtractor struct {
	encodings [][]float64
	err       error
}

func (s *stubExtractor) Encodings(ctx context.Context, image []byte) ([][]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.encodings, nil
}

type memBiometricsRepo struct {
	m map[string][]byte
}

func (r *memBiometricsRepo) Upsert(ctx context.Context, p *models.BiometricProfile) error {
	r.m[p.UserID] = p.Encoding
	return nil
}

func (r *memBiometricsRepo) GetAll(ctx context.Context) ([]models.BiometricProfile, error) {
	var out []models.BiometricProfile
	for id, enc := range r.m {
		out = append(out, models.BiometricProfile{UserID: id, Encoding: enc})
	}
	return out, nil
}

type memCredentialsRepo struct {
	m map[string]models.Credential
}

func (r *memCredentialsRepo) Upsert(ctx context.Context, c *models.Credential) error {
	r.m[c.UserID] = *c
	return nil
}

func (r *memCredentialsRepo) GetByUserID(ctx context.Context, userID string) (*models.Credential, error) {
	c, ok := r.m[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (r *memCredentialsRepo) SetBiometricEnabled(ctx context.Context, userID string, enabled bool) error {
	if c, ok := r.m[userID]; ok {
		c.BiometricEnabled = enabled
		r.m[userID] = c
	}
	return nil
}

type fakeRepoManager struct {
	creds credentials.Repository
	bios  biometrics.Repository
}

func (f *fakeRepoManager) Credentials(dbx.DBTX) credentials.Repository   { return f.creds }
func (f *fakeRepoManager) ResetTokens(dbx.DBTX) resettokens.Repository  { return nil }
func (f *fakeRepoManager) Biometrics(dbx.DBTX) biometrics.Repository    { return f.bios }
func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

// --- helpers ---

type fixture struct {
	matcher   *Matcher
	mock      sqlmock.Sqlmock
	extractor *stubExtractor
	bios      *memBiometricsRepo
	creds     *memCredentialsRepo
}

func newFixture(t *testing.T, threshold float64) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	extractor := &stubExtractor{}
	bios := &memBiometricsRepo{m: map[string][]byte{}}
	creds := &memCredentialsRepo{m: map[string]models.Credential{}}
	rm := &fakeRepoManager{creds: creds, bios: bios}

	return &fixture{
		matcher:   NewMatcher(db, rm, extractor, threshold, logging.Discard()),
		mock:      mock,
		extractor: extractor,
		bios:      bios,
		creds:     creds,
	}
}

func (f *fixture) expectTx() {
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
}

// --- tests ---

func TestEnroll_NoFaceDetected(t *testing.T) {
	f := newFixture(t, 0.6)
	f.extractor.encodings = nil

	err := f.matcher.Enroll(context.Background(), "u1", []byte("empty image"))
	assert.ErrorIs(t, err, common.ErrorNoFaceDetected)
	assert.Empty(t, f.bios.m, "no profile may be written on failure")
}

func TestEnroll_ExtractionErrorIsDistinct(t *testing.T) {
	f := newFixture(t, 0.6)
	f.extractor.err = errors.New("decoder crashed")

	err := f.matcher.Enroll(context.Background(), "u1", []byte("img"))
	assert.ErrorIs(t, err, common.ErrorExtraction)
	assert.NotErrorIs(t, err, common.ErrorNoFaceDetected)
}

func TestEnroll_FirstEncodingWinsWithMultipleFaces(t *testing.T) {
	f := newFixture(t, 0.6)
	f.extractor.encodings = [][]float64{{1, 2, 3}, {9, 9, 9}}

	f.expectTx()
	require.NoError(t, f.matcher.Enroll(context.Background(), "u1", []byte("img")))

	stored, err := DecodeVector(f.bios.m["u1"])
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, stored)
}

func TestEnroll_SetsBiometricFlagOnCredential(t *testing.T) {
	f := newFixture(t, 0.6)
	f.creds.m["u1"] = models.Credential{UserID: "u1"}
	f.extractor.encodings = [][]float64{{1, 2, 3}}

	f.expectTx()
	require.NoError(t, f.matcher.Enroll(context.Background(), "u1", []byte("img")))

	assert.True(t, f.creds.m["u1"].BiometricEnabled)
}

func TestEnroll_ReEnrollmentOverwrites(t *testing.T) {
	f := newFixture(t, 0.6)

	f.extractor.encodings = [][]float64{{1, 2, 3}}
	f.expectTx()
	require.NoError(t, f.matcher.Enroll(context.Background(), "u1", []byte("img")))

	f.extractor.encodings = [][]float64{{4, 5, 6}}
	f.expectTx()
	require.NoError(t, f.matcher.Enroll(context.Background(), "u1", []byte("img")))

	require.Len(t, f.bios.m, 1)
	stored, err := DecodeVector(f.bios.m["u1"])
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, stored)
}

func TestEnroll_EmptyUserID(t *testing.T) {
	f := newFixture(t, 0.6)
	f.extractor.encodings = [][]float64{{1, 2, 3}}

	err := f.matcher.Enroll(context.Background(), "", []byte("img"))
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestAuthenticate_MatchesClosestProfileUnderThreshold(t *testing.T) {
	f := newFixture(t, 0.6)
	f.bios.m["near"] = EncodeVector([]float64{0.1, 0.1, 0.1})
	f.bios.m["nearer"] = EncodeVector([]float64{0.05, 0.05, 0.05})
	f.bios.m["far"] = EncodeVector([]float64{5, 5, 5})

	f.extractor.encodings = [][]float64{{0, 0, 0}}

	userID, err := f.matcher.Authenticate(context.Background(), []byte("probe"))
	require.NoError(t, err)
	assert.Equal(t, "nearer", userID)
}

func TestAuthenticate_NoMatchBeyondThreshold(t *testing.T) {
	f := newFixture(t, 0.6)
	f.bios.m["u1"] = EncodeVector([]float64{10, 10, 10})

	f.extractor.encodings = [][]float64{{0, 0, 0}}

	_, err := f.matcher.Authenticate(context.Background(), []byte("probe"))
	assert.ErrorIs(t, err, common.ErrorNoMatch)
}

func TestAuthenticate_NoProfilesEnrolled(t *testing.T) {
	f := newFixture(t, 0.6)
	f.extractor.encodings = [][]float64{{0, 0, 0}}

	_, err := f.matcher.Authenticate(context.Background(), []byte("probe"))
	assert.ErrorIs(t, err, common.ErrorNoMatch)
}

func TestAuthenticate_NoFaceInProbe(t *testing.T) {
	f := newFixture(t, 0.6)
	f.extractor.encodings = nil

	_, err := f.matcher.Authenticate(context.Background(), []byte("probe"))
	assert.ErrorIs(t, err, common.ErrorNoFaceDetected)
}

func TestAuthenticate_SkipsCorruptAndMismatchedProfiles(t *testing.T) {
	f := newFixture(t, 0.6)
	f.bios.m["corrupt"] = []byte{1, 2, 3}                          // not a float64 blob
	f.bios.m["wrongdim"] = EncodeVector([]float64{0, 0})           // dimension mismatch
	f.bios.m["good"] = EncodeVector([]float64{0.01, 0.01, 0.01})   // valid

	f.extractor.encodings = [][]float64{{0, 0, 0}}

	userID, err := f.matcher.Authenticate(context.Background(), []byte("probe"))
	require.NoError(t, err)
	assert.Equal(t, "good", userID)
}
