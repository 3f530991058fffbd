package metadata

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider requests.
var (
	ErrNotFound    = errors.New("metadata: not found")
	ErrRateLimited = errors.New("metadata: rate limited by server")
	ErrBadRequest  = errors.New("metadata: bad request")
	ErrServer      = errors.New("metadata: server error")
)

// Error wraps an underlying error with provider and operation context.
type Error struct {
	Provider string
	Op       string // "search", "suggest", "work"
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError attaches provider context to err. A nil err stays nil.
func WrapError(provider, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Provider: provider, Op: op, Err: err}
}
