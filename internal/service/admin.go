package service

import (
	"context"
	"log"

	"github.com/iliyamo/identity-service/internal/repository"
)

// AdminService implements the admin-only operations: listing users through
// the read-through cache, verifying an account by hand and deleting an
// account with cascade cleanup of its tokens and codes.
type AdminService struct {
	Users             UserStore
	Tokens            TokenStore
	VerificationCodes CodeStore
	ResetCodes        CodeStore
	Cache             *repository.UserCache
}

func NewAdminService(users UserStore, tokens TokenStore, vcodes, rcodes CodeStore, cache *repository.UserCache) *AdminService {
	return &AdminService{Users: users, Tokens: tokens, VerificationCodes: vcodes, ResetCodes: rcodes, Cache: cache}
}

// ListUsers returns the sanitized user listing, served from the cache when
// possible.  A miss reads the database and repopulates the cache.
func (s *AdminService) ListUsers(ctx context.Context) ([]repository.CachedUser, error) {
	if cached, ok := s.Cache.Get(ctx); ok {
		return cached, nil
	}
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, users)
	return repository.Project(users), nil
}

// VerifyUser marks the account behind an email as verified without a code,
// and drops any outstanding verification codes for it.
func (s *AdminService) VerifyUser(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.Users.SetVerified(ctx, u.ID, true); err != nil {
		return err
	}
	if err := s.VerificationCodes.DeleteAllForUser(ctx, u.ID); err != nil {
		log.Printf("admin: dropping verification codes for user %d failed: %v", u.ID, err)
	}
	s.Cache.Invalidate(ctx)
	return nil
}

// DeleteUser removes an account and cascade-deletes its refresh tokens and
// one-time codes.  Two protection rules are checked before any mutation:
// an admin may not delete itself and may not delete another admin.  Each
// cascade delete is best-effort and independently retryable; a failure is
// logged and does not roll back the primary deletion, so a crashed cascade
// leaves orphan rows that expire on their own rather than a half-deleted
// user.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, targetID uint64) error {
	if actorID == targetID {
		return ErrForbidden
	}
	target, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return ErrForbidden
	}
	if err := s.Users.Delete(ctx, targetID); err != nil {
		return err
	}
	if err := s.Tokens.DeleteAllForUser(ctx, targetID); err != nil {
		log.Printf("admin: cascade delete refresh tokens for user %d failed: %v", targetID, err)
	}
	if err := s.VerificationCodes.DeleteAllForUser(ctx, targetID); err != nil {
		log.Printf("admin: cascade delete verification codes for user %d failed: %v", targetID, err)
	}
	if err := s.ResetCodes.DeleteAllForUser(ctx, targetID); err != nil {
		log.Printf("admin: cascade delete reset codes for user %d failed: %v", targetID, err)
	}
	s.Cache.Invalidate(ctx)
	return nil
}
