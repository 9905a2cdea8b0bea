package contacts

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidContact matches every *ValidationError via errors.Is.
	ErrInvalidContact = errors.New("invalid contact")
	// ErrNotFound is returned by adapters that need an error value for a
	// missing id. Book.Delete itself reports absence as false.
	ErrNotFound = errors.New("contact not found")
)

// FieldError describes one rejected field of a new contact.
type FieldError struct {
	Field string
	Rule  string
}

func (f FieldError) String() string {
	switch f.Rule {
	case "required":
		return f.Field + " is required"
	default:
		return f.Field + " failed rule " + f.Rule
	}
}

// ValidationError is returned by Add when the input is rejected. The book's
// state is never modified when it is returned.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return "invalid contact: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidContact }
