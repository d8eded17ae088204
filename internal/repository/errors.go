// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// services and handlers to distinguish between failure scenarios without
// inspecting driver-specific errors. For example, ErrConflict signals a
// duplicate username or email on insert, while ErrNotFound covers a
// missing user, code or token row.
package repository

import "errors"

// ErrConflict is returned when an insert collides with an existing unique
// value (username or normalized email). Handlers translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned when a lookup matches no row. It deliberately
// carries no detail about which key missed.
var ErrNotFound = errors.New("not found")
