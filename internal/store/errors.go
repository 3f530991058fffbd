package store

import (
	"errors"

	domainerrors "github.com/readingclub/readingclub-server/internal/errors"
)

// Messages for each level of a failed lookup.
const (
	MsgBookNotFound    = "book not found"
	MsgReviewNotFound  = "review not found"
	MsgCommentNotFound = "comment not found"
)

// ErrCorruptDocument wraps a persisted document that cannot be decoded.
// The store never attempts to repair it.
var ErrCorruptDocument = errors.New("catalog document is malformed")

func errBookNotFound() error    { return domainerrors.NotFound(MsgBookNotFound) }
func errReviewNotFound() error  { return domainerrors.NotFound(MsgReviewNotFound) }
func errCommentNotFound() error { return domainerrors.NotFound(MsgCommentNotFound) }

// IsNotFound reports whether err is a lookup failure at any level.
func IsNotFound(err error) bool {
	return errors.Is(err, domainerrors.ErrNotFound)
}
