// Package repository defines the storage contract used by the service layer
// and its MySQL implementation.  The sentinel values below let higher layers
// distinguish failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a looked-up row does not exist.  Services
// translate it into their own not-found error with context attached.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registering an email that is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a write violates a uniqueness constraint
// other than the user email, such as a second participant row for the same
// event and user.
var ErrConflict = errors.New("conflict")
