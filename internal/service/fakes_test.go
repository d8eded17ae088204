package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/iliyamo/identity-service/internal/model"
	"github.com/iliyamo/identity-service/internal/notify"
	"github.com/iliyamo/identity-service/internal/repository"
)

// In-memory stand-ins for the repositories.  They implement the same
// not-found and recency semantics as the SQL-backed versions so the
// services can be exercised end to end without a database.

type fakeUsers struct {
	seq  uint64
	byID map[uint64]*model.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[uint64]*model.User{}} }

func (f *fakeUsers) Create(_ context.Context, username, email, passwordHash, displayName, role string) (uint64, error) {
	email = repository.NormalizeEmail(email)
	for _, u := range f.byID {
		if u.Username == username || u.Email == email {
			return 0, repository.ErrConflict
		}
	}
	f.seq++
	now := time.Now().UTC()
	f.byID[f.seq] = &model.User{
		ID: f.seq, Username: username, Email: email, PasswordHash: passwordHash,
		DisplayName: displayName, Role: role, CreatedAt: now, UpdatedAt: now,
	}
	return f.seq, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return *u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = repository.NormalizeEmail(email)
	for _, u := range f.byID {
		if u.Email == email {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUsers) GetByIdentifier(ctx context.Context, identifier string) (model.User, error) {
	for _, u := range f.byID {
		if u.Username == identifier {
			return *u, nil
		}
	}
	return f.GetByEmail(ctx, identifier)
}

func (f *fakeUsers) UpdatePasswordHash(_ context.Context, id uint64, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) SetVerified(_ context.Context, id uint64, verified bool) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Verified = verified
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id uint64) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeTokens struct {
	rows       map[string]*model.RefreshToken
	seq        uint64
	failDelete bool
}

func newFakeTokens() *fakeTokens { return &fakeTokens{rows: map[string]*model.RefreshToken{}} }

func (f *fakeTokens) StoreRefresh(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	f.seq++
	f.rows[tokenHash] = &model.RefreshToken{ID: f.seq, UserID: userID, TokenHash: tokenHash, ExpiresAt: exp, CreatedAt: time.Now().UTC()}
	return nil
}

func (f *fakeTokens) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	t, ok := f.rows[tokenHash]
	if !ok || t.Revoked() || t.Expired(time.Now().UTC()) {
		return 0, repository.ErrNotFound
	}
	return t.UserID, nil
}

func (f *fakeTokens) RevokeByHash(_ context.Context, tokenHash string) error {
	if t, ok := f.rows[tokenHash]; ok && t.RevokedAt == nil {
		now := time.Now().UTC()
		t.RevokedAt = &now
	}
	return nil
}

func (f *fakeTokens) DeleteAllForUser(_ context.Context, userID uint64) error {
	if f.failDelete {
		return errors.New("store unavailable")
	}
	for h, t := range f.rows {
		if t.UserID == userID {
			delete(f.rows, h)
		}
	}
	return nil
}

func (f *fakeTokens) countForUser(userID uint64) int {
	n := 0
	for _, t := range f.rows {
		if t.UserID == userID {
			n++
		}
	}
	return n
}

type fakeCodes struct {
	rows       []model.Code
	seq        uint64
	failDelete bool
}

func (f *fakeCodes) Store(_ context.Context, userID uint64, code string, exp time.Time) error {
	f.seq++
	f.rows = append(f.rows, model.Code{ID: f.seq, UserID: userID, Code: code, ExpiresAt: exp, CreatedAt: time.Now().UTC()})
	return nil
}

func (f *fakeCodes) GetNewestForUser(_ context.Context, userID uint64) (model.Code, error) {
	best := -1
	for i, c := range f.rows {
		if c.UserID != userID {
			continue
		}
		if best == -1 || f.rows[i].ID > f.rows[best].ID {
			best = i
		}
	}
	if best == -1 {
		return model.Code{}, repository.ErrNotFound
	}
	return f.rows[best], nil
}

func (f *fakeCodes) DeleteAllForUser(_ context.Context, userID uint64) error {
	if f.failDelete {
		return errors.New("store unavailable")
	}
	kept := f.rows[:0]
	for _, c := range f.rows {
		if c.UserID != userID {
			kept = append(kept, c)
		}
	}
	f.rows = kept
	return nil
}

func tokenExp() time.Time { return time.Now().UTC().Add(time.Hour) }

type sentMsg struct {
	Destination string
	Purpose     notify.Purpose
	Code        string
}

type fakeSender struct {
	sent []sentMsg
	fail bool
}

func (f *fakeSender) Name() string { return "fake" }

func (f *fakeSender) Send(_ context.Context, destination string, purpose notify.Purpose, code string) error {
	if f.fail {
		return errors.New("delivery failed")
	}
	f.sent = append(f.sent, sentMsg{Destination: destination, Purpose: purpose, Code: code})
	return nil
}
