package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/identity-service/internal/model"
)

// Code table names.  Email verification and password reset codes share a
// schema but live in separate tables so one can never be replayed as the
// other.
const (
	EmailVerificationCodes = "email_verification_codes"
	PasswordResetCodes     = "password_reset_codes"
)

// CodeRepo persists one-time codes in the table it was constructed with.
// Two instances are created at startup, one per namespace.
type CodeRepo struct {
	DB    *sql.DB
	Table string
}

func NewCodeRepo(db *sql.DB, table string) *CodeRepo { return &CodeRepo{DB: db, Table: table} }

// Store inserts a code row for a user.
func (r *CodeRepo) Store(ctx context.Context, userID uint64, code string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO "+r.Table+" (user_id, code, expires_at) VALUES (?,?,?)",
		userID, code, exp)
	return err
}

// GetNewestForUser returns the most recently created code row for a user.
// Recency is the source of truth: older rows may still exist after a
// concurrent issue, but they are never returned here.
func (r *CodeRepo) GetNewestForUser(ctx context.Context, userID uint64) (model.Code, error) {
	var c model.Code
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, code, expires_at, created_at FROM "+r.Table+" WHERE user_id=? ORDER BY created_at DESC, id DESC LIMIT 1",
		userID).Scan(&c.ID, &c.UserID, &c.Code, &c.ExpiresAt, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Code{}, ErrNotFound
	}
	return c, err
}

// DeleteAllForUser removes every code row for a user.  Called before a new
// code is stored so only the latest is ever valid, and on successful
// consumption.
func (r *CodeRepo) DeleteAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM "+r.Table+" WHERE user_id=?", userID)
	return err
}
