package service

import (
	"context"
	"time"

	"github.com/iliyamo/identity-service/internal/model"
)

// UserStore is the slice of the user repository the services consume.
// *repository.UserRepo satisfies it; tests substitute in-memory fakes.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash, displayName, role string) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (model.User, error)
	UpdatePasswordHash(ctx context.Context, id uint64, hash string) error
	SetVerified(ctx context.Context, id uint64, verified bool) error
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context) ([]model.User, error)
}

// TokenStore persists refresh tokens, keyed by their SHA-256 hash.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	DeleteAllForUser(ctx context.Context, userID uint64) error
}

// CodeStore persists one-time codes for a single namespace (verification
// or reset).
type CodeStore interface {
	Store(ctx context.Context, userID uint64, code string, exp time.Time) error
	GetNewestForUser(ctx context.Context, userID uint64) (model.Code, error)
	DeleteAllForUser(ctx context.Context, userID uint64) error
}
