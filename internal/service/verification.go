package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/identity-service/internal/notify"
	"github.com/iliyamo/identity-service/internal/repository"
	"github.com/iliyamo/identity-service/internal/utils"
)

// VerificationService issues and validates email verification codes.  A
// user moves from unverified to verified exactly once, through Validate;
// repeated Issue calls only invalidate earlier codes because the newest
// row is the only one a lookup ever returns.
type VerificationService struct {
	Users  UserStore
	Codes  CodeStore
	Sender notify.Sender
	Cache  *repository.UserCache
	TTL    time.Duration
}

func NewVerificationService(users UserStore, codes CodeStore, sender notify.Sender, cache *repository.UserCache, ttl time.Duration) *VerificationService {
	return &VerificationService{Users: users, Codes: codes, Sender: sender, Cache: cache, TTL: ttl}
}

// Issue generates a fresh code for the user, invalidates all earlier
// codes, and sends exactly one notification.  Delivery failure is logged
// but does not undo the issued code: if the user obtains the code through
// another channel it must still work.
func (s *VerificationService) Issue(ctx context.Context, userID uint64) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	code, err := utils.NewCode()
	if err != nil {
		return err
	}
	if err := s.Codes.DeleteAllForUser(ctx, userID); err != nil {
		return err
	}
	exp := time.Now().UTC().Add(s.TTL)
	if err := s.Codes.Store(ctx, userID, code, exp); err != nil {
		return err
	}
	if err := s.Sender.Send(ctx, u.Email, notify.PurposeEmailVerify, code); err != nil {
		log.Printf("verification: send to user %d failed: %v", userID, err)
	}
	return nil
}

// Validate checks a submitted code against the newest stored one.  On
// mismatch or expiry nothing is mutated and the stored code survives; on
// success the user is marked verified and the code is consumed, so a
// second Validate with the same code fails with not found.
func (s *VerificationService) Validate(ctx context.Context, userID uint64, submitted string) error {
	c, err := s.Codes.GetNewestForUser(ctx, userID)
	if err != nil {
		return err // repository.ErrNotFound when no code exists
	}
	if c.Expired(time.Now().UTC()) {
		return ErrExpired
	}
	if !utils.CodeEqual(c.Code, submitted) {
		return ErrMismatch
	}
	if err := s.Users.SetVerified(ctx, userID, true); err != nil {
		return err
	}
	// The verified flag is the primary state change; a failed consume
	// only leaves rows that a later delete or expiry clears, so it is
	// logged rather than surfaced as a failure of the verification.
	if err := s.Codes.DeleteAllForUser(ctx, userID); err != nil {
		log.Printf("verification: consuming codes for user %d failed: %v", userID, err)
	}
	if s.Cache != nil {
		s.Cache.Invalidate(ctx)
	}
	return nil
}

// ValidateEmail resolves the account behind an email address and runs
// Validate against it.  An unknown email maps to repository.ErrNotFound,
// same as a missing code.
func (s *VerificationService) ValidateEmail(ctx context.Context, email, submitted string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.Validate(ctx, u.ID, submitted)
}

// Resend issues a new code for the account behind an email address.  An
// already-verified account and an unknown email both return success
// silently, so the endpoint does not reveal whether a resend was needed
// or whether the address exists.
func (s *VerificationService) Resend(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("verification: resend for unknown email ignored")
		return nil
	}
	if err != nil {
		return err
	}
	if u.Verified {
		return nil
	}
	return s.Issue(ctx, u.ID)
}
