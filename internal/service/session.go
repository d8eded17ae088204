package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/identity-service/internal/config"
	"github.com/iliyamo/identity-service/internal/model"
	"github.com/iliyamo/identity-service/internal/repository"
	"github.com/iliyamo/identity-service/internal/utils"
)

// SessionManager orchestrates registration, login, token refresh and
// logout on top of the user and token repositories, the token helpers and
// the verification service.
type SessionManager struct {
	Cfg          config.Config
	Users        UserStore
	Tokens       TokenStore
	Verification *VerificationService
	Cache        *repository.UserCache
}

func NewSessionManager(cfg config.Config, users UserStore, tokens TokenStore, verification *VerificationService, cache *repository.UserCache) *SessionManager {
	return &SessionManager{Cfg: cfg, Users: users, Tokens: tokens, Verification: verification, Cache: cache}
}

// Identity is the projection of a user returned alongside tokens.
type Identity struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Verified    bool   `json:"verified"`
}

func identityOf(u model.User) Identity {
	return Identity{ID: u.ID, Username: u.Username, Email: u.Email, DisplayName: u.DisplayName, Role: u.Role, Verified: u.Verified}
}

// TokenPair bundles a signed access token with the raw refresh secret the
// client must keep.  Only the refresh hash ever reaches the database.
type TokenPair struct {
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// LoginResult is the outcome of a successful credential check.  When the
// account is still unverified, VerificationRequired is true and Tokens is
// nil; this is a distinct success variant, not an error, so the handler
// can route the client to the verification step.
type LoginResult struct {
	VerificationRequired bool
	Identity             Identity
	Tokens               *TokenPair
}

// issuePair mints an access token and stores a new refresh token row.
func (m *SessionManager) issuePair(ctx context.Context, u model.User) (TokenPair, error) {
	access, err := utils.NewAccessToken(m.Cfg.JWTSecret, u.ID, u.Username, u.Role, m.Cfg.AccessTTLDays)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := utils.NewRefreshToken(m.Cfg.RefreshTTLDays)
	if err != nil {
		return TokenPair{}, err
	}
	if err := m.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Login checks credentials against a username or a normalized email.  An
// unknown identifier and a wrong password produce the identical
// ErrInvalidCredentials.  An unverified account gets a token-less
// VerificationRequired result instead of a pair.
func (m *SessionManager) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	u, err := m.Users.GetByIdentifier(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !u.Verified {
		return LoginResult{VerificationRequired: true, Identity: identityOf(u)}, nil
	}
	pair, err := m.issuePair(ctx, u)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Identity: identityOf(u), Tokens: &pair}, nil
}

// RegisterResult carries the new identity and its initial token pair.
type RegisterResult struct {
	Identity Identity
	Tokens   TokenPair
}

// TempPassword derives the placeholder password a freshly registered
// account is left with.  Registration overwrites the caller-supplied
// password with the hash of this value, so the submitted password never
// works for login; the client is expected to call change-password with
// the derived value as "current" right away.  Kept for compatibility with
// existing clients; do not treat the derived value as a real credential.
func TempPassword(userID uint64) string {
	return fmt.Sprintf("Pass_%d", userID)
}

// Register creates an unverified user, swaps in the derived temp
// password, issues a verification code and returns an initial token pair
// so the client can change the password without a second login.  The role
// is always "user"; admin accounts are provisioned out-of-band.
func (m *SessionManager) Register(ctx context.Context, username, email, password, displayName string) (RegisterResult, error) {
	hash, err := utils.HashPassword(password, m.Cfg.BcryptCost)
	if err != nil {
		return RegisterResult{}, err
	}
	id, err := m.Users.Create(ctx, username, email, hash, displayName, model.RoleUser)
	if err != nil {
		return RegisterResult{}, err
	}
	tempHash, err := utils.HashPassword(TempPassword(id), m.Cfg.BcryptCost)
	if err != nil {
		return RegisterResult{}, err
	}
	if err := m.Users.UpdatePasswordHash(ctx, id, tempHash); err != nil {
		return RegisterResult{}, err
	}
	if err := m.Verification.Issue(ctx, id); err != nil {
		return RegisterResult{}, err
	}
	u, err := m.Users.GetByID(ctx, id)
	if err != nil {
		return RegisterResult{}, err
	}
	pair, err := m.issuePair(ctx, u)
	if err != nil {
		return RegisterResult{}, err
	}
	if m.Cache != nil {
		m.Cache.Invalidate(ctx)
	}
	return RegisterResult{Identity: identityOf(u), Tokens: pair}, nil
}

// RefreshResult holds a new access token and, when rotation is enabled,
// the replacement refresh secret.
type RefreshResult struct {
	Access  utils.AccessToken
	Refresh *utils.RefreshToken
}

// Refresh exchanges a valid refresh secret for a new access token.
// Missing, revoked and expired tokens all fail identically with
// repository.ErrNotFound.  The presented token's own expiry is never
// extended.  When RotateOnRefresh is set, the presented token is revoked
// and a fresh one issued alongside the access token.
func (m *SessionManager) Refresh(ctx context.Context, rawRefresh string) (RefreshResult, error) {
	hash := utils.HashRefreshRaw(rawRefresh)
	userID, err := m.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return RefreshResult{}, err
	}
	u, err := m.Users.GetByID(ctx, userID)
	if err != nil {
		return RefreshResult{}, err
	}
	access, err := utils.NewAccessToken(m.Cfg.JWTSecret, u.ID, u.Username, u.Role, m.Cfg.AccessTTLDays)
	if err != nil {
		return RefreshResult{}, err
	}
	if !m.Cfg.RotateOnRefresh {
		return RefreshResult{Access: access}, nil
	}
	next, err := utils.NewRefreshToken(m.Cfg.RefreshTTLDays)
	if err != nil {
		return RefreshResult{}, err
	}
	if err := m.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(next.Raw), next.Exp); err != nil {
		return RefreshResult{}, err
	}
	if err := m.Tokens.RevokeByHash(ctx, hash); err != nil {
		return RefreshResult{}, err
	}
	return RefreshResult{Access: access, Refresh: &next}, nil
}

// Logout revokes the presented refresh token if it exists.  Unknown and
// already-revoked tokens succeed as well, which makes logout idempotent;
// only a store failure propagates.
func (m *SessionManager) Logout(ctx context.Context, rawRefresh string) error {
	return m.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(rawRefresh))
}

// ChangePassword verifies the current password and replaces the hash.
// The wrong current password maps to ErrInvalidCredentials, same as
// login.
func (m *SessionManager) ChangePassword(ctx context.Context, userID uint64, current, next string) error {
	u, err := m.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	hash, err := utils.HashPassword(next, m.Cfg.BcryptCost)
	if err != nil {
		return err
	}
	return m.Users.UpdatePasswordHash(ctx, userID, hash)
}
