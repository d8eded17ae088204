package model

import "time"

// Role values stored in users.role.  The service knows exactly two roles;
// anything else in the column is treated as "user".
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column.  The json tags are omitted
// because these structs are used internally by the repository layer;
// handlers define separate response types with appropriate JSON tags.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique username, compared case-sensitively.
//	Email        – unique email address, stored lowercased and trimmed.
//	PasswordHash – bcrypt hashed password.
//	DisplayName  – human-readable name shown in the UI.
//	Role         – "user" or "admin".
//	Verified     – whether the email address has been confirmed.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	DisplayName  string    // users.display_name
	Role         string    // users.role
	Verified     bool      // users.verified
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
