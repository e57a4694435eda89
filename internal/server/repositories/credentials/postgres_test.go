package credentials

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/secureledger/vault/internal/common"
	"github.com/secureledger/vault/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func sampleCredential() *models.Credential {
	return &models.Credential{
		UserID:         "u1",
		UsernameCipher: []byte("uc"),
		UsernameNonce:  []byte("un"),
		PasswordCipher: []byte("pc"),
		PasswordNonce:  []byte("pn"),
		Hint:           "pet name",
	}
}

func TestUpsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+user_credentials\s*\(.*\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*ON\s+CONFLICT\(user_id\)\s+DO\s+UPDATE\s+SET\s+.*$`

	c := sampleCredential()
	mock.ExpectExec(q).
		WithArgs(c.UserID, c.UsernameCipher, c.UsernameNonce, c.PasswordCipher, c.PasswordNonce, c.Hint, c.BiometricEnabled).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Upsert(context.Background(), c); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+user_credentials`).
		WillReturnError(errors.New("db down"))

	err := repo.Upsert(context.Background(), sampleCredential())
	if err == nil || !regexp.MustCompile(`failed to upsert credential: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByUserID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+user_credentials\s+WHERE\s+user_id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"user_id", "username_cipher", "username_nonce", "password_cipher", "password_nonce", "hint", "biometric_enabled"}).
		AddRow("u1", []byte("uc"), []byte("un"), []byte("pc"), []byte("pn"), "pet name", true)
	mock.ExpectQuery(q).WithArgs("u1").WillReturnRows(rows)

	got, err := repo.GetByUserID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByUserID error: %v", err)
	}
	if got.UserID != "u1" || got.Hint != "pet name" || !got.BiometricEnabled {
		t.Fatalf("unexpected credential: %+v", got)
	}
}

func TestGetByUserID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*\s+FROM\s+user_credentials`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUserID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestSetBiometricEnabled(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+user_credentials\s+SET\s+biometric_enabled\s*=\s*\$1\s+WHERE\s+user_id\s*=\s*\$2\s*$`
	mock.ExpectExec(q).WithArgs(true, "u1").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetBiometricEnabled(context.Background(), "u1", true); err != nil {
		t.Fatalf("SetBiometricEnabled error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
