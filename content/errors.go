package content

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches any *NotFoundError.
	ErrNotFound = errors.New("post store not found")
	// ErrParse matches any *ParseError.
	ErrParse = errors.New("malformed post data")
)

// NotFoundError is returned when the post store does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("post store %s not found: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ParseError is returned when the store payload is not an array of posts.
// Index is the offending record, or -1 when the document as a whole is bad.
type ParseError struct {
	Index int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("parse post store: %v", e.Err)
	case e.Field == "":
		return fmt.Sprintf("parse post %d: %v", e.Index, e.Err)
	default:
		return fmt.Sprintf("parse post %d: field %q: %v", e.Index, e.Field, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
