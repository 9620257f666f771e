package service

import (
    "errors"
    "fmt"

    "github.com/iliyamo/event-rides/internal/repository"
)

// Error kinds.  Every error returned by Service wraps exactly one of these;
// callers branch with errors.Is.
var (
    ErrNotFound     = errors.New("not found")
    ErrForbidden    = errors.New("forbidden")
    ErrInvalidState = errors.New("invalid state")
    ErrValidation   = errors.New("validation error")
    ErrCapacity     = errors.New("capacity exceeded")
)

// Error is a kind plus a caller-facing message.
type Error struct {
    Kind error
    Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func fail(kind error, format string, args ...any) error {
    return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// lookup turns a repository miss into ErrNotFound naming what was missing.
// Other errors pass through untouched.
func lookup(err error, what string) error {
    if errors.Is(err, repository.ErrNotFound) {
        return fail(ErrNotFound, "%s not found", what)
    }
    return err
}
