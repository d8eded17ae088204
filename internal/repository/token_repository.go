package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/identity-service/internal/model"
)

// TokenRepo persists/validates refresh tokens (single 'token_hash' column).
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// GetByHash loads a token row by hash regardless of its state.  Callers
// decide what revoked or expired means for their flow.
func (r *TokenRepo) GetByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	var (
		t         model.RefreshToken
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, expires_at, revoked_at, created_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &revokedAt, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return model.RefreshToken{}, ErrNotFound
	}
	if err != nil {
		return model.RefreshToken{}, err
	}
	if revokedAt.Valid {
		rv := revokedAt.Time
		t.RevokedAt = &rv
	}
	return t, nil
}

// ValidateRefresh returns the owning userID if a non-revoked, non-expired
// token exists for the hash.  Revoked, expired and missing tokens are all
// reported as ErrNotFound so callers cannot distinguish them.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	t, err := r.GetByHash(ctx, tokenHash)
	if err != nil {
		return 0, err
	}
	if t.Revoked() || t.Expired(time.Now().UTC()) {
		return 0, ErrNotFound
	}
	return t.UserID, nil
}

// RevokeByHash marks a token as revoked.  Already-revoked and unknown
// hashes are a no-op, which keeps logout idempotent.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// DeleteAllForUser removes every token row for a user.  Used by the
// admin cascade when an account is deleted.
func (r *TokenRepo) DeleteAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE user_id=?", userID)
	return err
}
