package blog

import (
	"errors"
	"fmt"

	"github.com/jacentio/quill/storage"
)

// ErrInvalidID is returned when an identifier fails the syntactic check.
// It is detected before any store access and is distinct from not-found.
var ErrInvalidID = errors.New("quill: malformed id")

// NotFoundError is returned when a well-formed id is absent from the
// store. Entity names which entity type was looked up.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("quill: %s not found", e.Entity)
}

// Unwrap lets callers branch on storage.ErrNotFound without knowing the
// entity type.
func (e *NotFoundError) Unwrap() error {
	return storage.ErrNotFound
}
