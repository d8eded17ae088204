package handler

import (
	"context"
	"sort"
	"time"

	"github.com/iliyamo/identity-service/internal/model"
	"github.com/iliyamo/identity-service/internal/notify"
	"github.com/iliyamo/identity-service/internal/repository"
)

// Compact in-memory stores for exercising the handlers through the real
// services.

type memUsers struct {
	seq  uint64
	byID map[uint64]*model.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[uint64]*model.User{}} }

func (f *memUsers) Create(_ context.Context, username, email, passwordHash, displayName, role string) (uint64, error) {
	email = repository.NormalizeEmail(email)
	for _, u := range f.byID {
		if u.Username == username || u.Email == email {
			return 0, repository.ErrConflict
		}
	}
	f.seq++
	f.byID[f.seq] = &model.User{ID: f.seq, Username: username, Email: email, PasswordHash: passwordHash, DisplayName: displayName, Role: role}
	return f.seq, nil
}

func (f *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	if u, ok := f.byID[id]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (f *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = repository.NormalizeEmail(email)
	for _, u := range f.byID {
		if u.Email == email {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *memUsers) GetByIdentifier(ctx context.Context, identifier string) (model.User, error) {
	for _, u := range f.byID {
		if u.Username == identifier {
			return *u, nil
		}
	}
	return f.GetByEmail(ctx, identifier)
}

func (f *memUsers) UpdatePasswordHash(_ context.Context, id uint64, hash string) error {
	if u, ok := f.byID[id]; ok {
		u.PasswordHash = hash
		return nil
	}
	return repository.ErrNotFound
}

func (f *memUsers) SetVerified(_ context.Context, id uint64, verified bool) error {
	if u, ok := f.byID[id]; ok {
		u.Verified = verified
		return nil
	}
	return repository.ErrNotFound
}

func (f *memUsers) Delete(_ context.Context, id uint64) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *memUsers) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memTokens struct{ rows map[string]*model.RefreshToken }

func newMemTokens() *memTokens { return &memTokens{rows: map[string]*model.RefreshToken{}} }

func (f *memTokens) StoreRefresh(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	f.rows[tokenHash] = &model.RefreshToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: exp}
	return nil
}

func (f *memTokens) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	t, ok := f.rows[tokenHash]
	if !ok || t.Revoked() || t.Expired(time.Now().UTC()) {
		return 0, repository.ErrNotFound
	}
	return t.UserID, nil
}

func (f *memTokens) RevokeByHash(_ context.Context, tokenHash string) error {
	if t, ok := f.rows[tokenHash]; ok && t.RevokedAt == nil {
		now := time.Now().UTC()
		t.RevokedAt = &now
	}
	return nil
}

func (f *memTokens) DeleteAllForUser(_ context.Context, userID uint64) error {
	for h, t := range f.rows {
		if t.UserID == userID {
			delete(f.rows, h)
		}
	}
	return nil
}

type memCodes struct {
	seq  uint64
	rows []model.Code
}

func (f *memCodes) Store(_ context.Context, userID uint64, code string, exp time.Time) error {
	f.seq++
	f.rows = append(f.rows, model.Code{ID: f.seq, UserID: userID, Code: code, ExpiresAt: exp})
	return nil
}

func (f *memCodes) GetNewestForUser(_ context.Context, userID uint64) (model.Code, error) {
	best := -1
	for i, c := range f.rows {
		if c.UserID == userID && (best == -1 || f.rows[i].ID > f.rows[best].ID) {
			best = i
		}
	}
	if best == -1 {
		return model.Code{}, repository.ErrNotFound
	}
	return f.rows[best], nil
}

func (f *memCodes) DeleteAllForUser(_ context.Context, userID uint64) error {
	kept := f.rows[:0]
	for _, c := range f.rows {
		if c.UserID != userID {
			kept = append(kept, c)
		}
	}
	f.rows = kept
	return nil
}

type memSender struct{ sent int }

func (s *memSender) Name() string { return "mem" }

func (s *memSender) Send(context.Context, string, notify.Purpose, string) error {
	s.sent++
	return nil
}
