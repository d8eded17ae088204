// Package service implements the identity flows: registration, login,
// token refresh, email verification, password reset and the admin
// operations. Repositories do storage, handlers do HTTP; every rule that
// makes this subsystem security-sensitive lives here.
package service

import "errors"

// ErrInvalidCredentials covers both an unknown identifier and a wrong
// password. Login deliberately does not distinguish the two so that the
// endpoint cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrExpired is returned when a submitted code exists but is past its
// window.
var ErrExpired = errors.New("code expired")

// ErrMismatch is returned when a submitted code does not match the stored
// one. The stored code is not consumed on mismatch.
var ErrMismatch = errors.New("code mismatch")

// ErrForbidden is returned when an admin mutation violates a protection
// rule: deleting oneself or deleting another admin.
var ErrForbidden = errors.New("forbidden")
