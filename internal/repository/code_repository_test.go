package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCodeRepoStoreAndGetNewest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	exp := time.Now().UTC().Add(15 * time.Minute)
	mock.ExpectExec("INSERT INTO email_verification_codes").
		WithArgs(7, "482913", exp).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("FROM email_verification_codes WHERE user_id=. ORDER BY created_at DESC").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "code", "expires_at", "created_at"}).
			AddRow(1, 7, "482913", exp, time.Now().UTC()))

	r := NewCodeRepo(db, EmailVerificationCodes)
	ctx := context.Background()
	if err := r.Store(ctx, 7, "482913", exp); err != nil {
		t.Fatalf("Store: %v", err)
	}
	c, err := r.GetNewestForUser(ctx, 7)
	if err != nil {
		t.Fatalf("GetNewestForUser: %v", err)
	}
	if c.Code != "482913" || c.UserID != 7 {
		t.Fatalf("unexpected code row: %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCodeRepoGetNewestMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM password_reset_codes WHERE user_id=").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "code", "expires_at", "created_at"}))

	r := NewCodeRepo(db, PasswordResetCodes)
	if _, err := r.GetNewestForUser(context.Background(), 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCodeRepoTableNamespaces(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// The two namespaces must hit their own tables so a reset code can
	// never verify an email.
	mock.ExpectExec("DELETE FROM email_verification_codes WHERE user_id=").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM password_reset_codes WHERE user_id=").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	if err := NewCodeRepo(db, EmailVerificationCodes).DeleteAllForUser(ctx, 7); err != nil {
		t.Fatalf("DeleteAllForUser (verification): %v", err)
	}
	if err := NewCodeRepo(db, PasswordResetCodes).DeleteAllForUser(ctx, 7); err != nil {
		t.Fatalf("DeleteAllForUser (reset): %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
