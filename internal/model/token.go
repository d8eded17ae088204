package model

import "time"

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user and carries metadata for expiry and revocation.
// The plain token is never stored; only its SHA-256 hash.  Rotation issues a
// new row rather than mutating an existing one, so a token value is never
// reused across users or sessions.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the token.
//	TokenHash – SHA-256 hex digest of the token value.
//	ExpiresAt – expiration timestamp of the token.
//	RevokedAt – when the token was revoked (nil if still active).
//	CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

// Expired reports whether the token is past its expiry at the given instant.
func (t RefreshToken) Expired(now time.Time) bool { return now.After(t.ExpiresAt) }

// Revoked reports whether the token has been explicitly invalidated.
func (t RefreshToken) Revoked() bool { return t.RevokedAt != nil }
