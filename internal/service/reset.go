package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/iliyamo/identity-service/internal/model"
	"github.com/iliyamo/identity-service/internal/notify"
	"github.com/iliyamo/identity-service/internal/repository"
	"github.com/iliyamo/identity-service/internal/utils"
)

// issueTimeout bounds the background issuance work after the request has
// already been answered.
const issueTimeout = 30 * time.Second

// PasswordResetService mirrors the verification state machine in a
// separate code namespace.  Its terminal action replaces the password
// hash; it never touches the verified flag, so resetting a password does
// not sneak an unverified account past verification.
type PasswordResetService struct {
	Users      UserStore
	Codes      CodeStore
	Sender     notify.Sender
	TTL        time.Duration
	BcryptCost int

	inflight sync.WaitGroup
}

func NewPasswordResetService(users UserStore, codes CodeStore, sender notify.Sender, ttl time.Duration, cost int) *PasswordResetService {
	return &PasswordResetService{Users: users, Codes: codes, Sender: sender, TTL: ttl, BcryptCost: cost}
}

// Request issues a reset code for the account behind an email address.
// The caller always gets success: an unknown email is logged and
// swallowed so the endpoint cannot be used to enumerate accounts.  The
// issuance itself runs off the request path for the same reason; both
// branches answer after the lookup alone, so response timing does not
// reveal whether the address exists.
func (s *PasswordResetService) Request(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("reset: request for unknown email ignored")
		return nil
	}
	if err != nil {
		return err
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), issueTimeout)
		defer cancel()
		if err := s.issue(ctx, u); err != nil {
			log.Printf("reset: issuing code for user %d failed: %v", u.ID, err)
		}
	}()
	return nil
}

func (s *PasswordResetService) issue(ctx context.Context, u model.User) error {
	code, err := utils.NewCode()
	if err != nil {
		return err
	}
	if err := s.Codes.DeleteAllForUser(ctx, u.ID); err != nil {
		return err
	}
	exp := time.Now().UTC().Add(s.TTL)
	if err := s.Codes.Store(ctx, u.ID, code, exp); err != nil {
		return err
	}
	if err := s.Sender.Send(ctx, u.Email, notify.PurposeEmailReset, code); err != nil {
		log.Printf("reset: send to user %d failed: %v", u.ID, err)
	}
	return nil
}

// Flush waits for background issuance to drain.  Called at shutdown and
// by tests that assert on issued codes.
func (s *PasswordResetService) Flush() { s.inflight.Wait() }

// Reset validates the submitted code under the same rules as email
// verification (newest row, unexpired, constant-time match) and, on
// success, replaces the password hash and consumes the code.
func (s *PasswordResetService) Reset(ctx context.Context, email, submitted, newPassword string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	c, err := s.Codes.GetNewestForUser(ctx, u.ID)
	if err != nil {
		return err
	}
	if c.Expired(time.Now().UTC()) {
		return ErrExpired
	}
	if !utils.CodeEqual(c.Code, submitted) {
		return ErrMismatch
	}
	hash, err := utils.HashPassword(newPassword, s.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return err
	}
	return s.Codes.DeleteAllForUser(ctx, u.ID)
}
