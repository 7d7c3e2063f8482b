// Package repository contains data access logic separated from HTTP
// handlers. This file defines sentinel errors reused across repositories so
// handlers can translate failure modes into HTTP status codes without
// inspecting driver-specific errors.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a row does not exist. Handlers also use it
// to mask resources the caller is not allowed to know about.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict signals that an operation cannot proceed due to existing
// state. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrDuplicate is returned when an insert violates a unique key. For
// conversation creation this is the race-safety backstop: callers fall back
// to the existing row instead of failing.
var ErrDuplicate = errors.New("duplicate row")

// ErrUsernameExists and ErrEmailExists distinguish which unique key a user
// insert collided with so registration can report the right field.
var (
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
)

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error 1062), optionally scoped to a named index.
func isDuplicateKey(err error, index string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "1062") && !strings.Contains(msg, "Duplicate entry") {
		return false
	}
	return index == "" || strings.Contains(msg, index)
}
