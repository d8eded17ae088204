package model

import "time"

// Code represents a row in either the `email_verification_codes` or the
// `password_reset_codes` table.  The two tables share a shape but are
// separate namespaces: a reset code can never verify an email and vice
// versa.  Only the newest unexpired row for a user is considered valid;
// recency, not a mutable slot, is the source of truth, so concurrent
// issues cannot resurrect an older code.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the code.
//	Code      – 6-digit zero-padded numeric string.
//	ExpiresAt – expiration timestamp (issue time + configured window).
//	CreatedAt – timestamp of creation; recency ordering key.
type Code struct {
	ID        uint64    // id
	UserID    uint64    // user_id
	Code      string    // code
	ExpiresAt time.Time // expires_at
	CreatedAt time.Time // created_at
}

// Expired reports whether the code is past its window at the given instant.
func (c Code) Expired(now time.Time) bool { return now.After(c.ExpiresAt) }
