package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/identity-service/internal/model"
)

// UserRepo persists user records in the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password_hash,display_name,role,verified,created_at,updated_at"

// NormalizeEmail lowercases and trims an email address.  Usernames are
// stored and compared as given; only emails are normalized.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a user and returns its ID.  The password must already be
// hashed by the caller.  Duplicate username or email maps to ErrConflict.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash, displayName, role string) (uint64, error) {
	email = NormalizeEmail(email)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, display_name, role, verified) VALUES (?,?,?,?,?,0)",
		username, email, passwordHash, displayName, role)
	if err != nil {
		// MySQL 1062 = duplicate entry on a unique index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.Verified, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", NormalizeEmail(email)))
}

// GetByIdentifier fetches a user by username (exact match) or normalized
// email.  Login accepts either, so both are tried in one query.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? OR email=? LIMIT 1",
		identifier, NormalizeEmail(identifier)))
}

// UpdatePasswordHash replaces the stored hash for a user.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// SetVerified flips the verified flag for a user.
func (r *UserRepo) SetVerified(ctx context.Context, id uint64, verified bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET verified=?, updated_at=NOW() WHERE id=?", verified, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// UpdateRole changes a user's role.  Only the out-of-band admin pathway
// calls this; public registration can never reach it.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=?, updated_at=NOW() WHERE id=?", role, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// Delete removes a user row.  Cascade cleanup of tokens and codes is the
// caller's responsibility (see the admin service).
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// List returns all users ordered by creation time.  Password hashes are
// included because the struct mirrors the table; callers building client
// responses must project them away.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.Verified, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
