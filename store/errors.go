package store

import (
	"errors"
	"fmt"
)

// ErrCorrupt marks a persisted document that exists but cannot be decoded.
var ErrCorrupt = errors.New("store: document is corrupt")

// PersistenceError reports a failure to read or write the bound location.
type PersistenceError struct {
	Op   string // "load", "save" or "configure"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func errUnsupported(what, value string) error {
	return fmt.Errorf("unsupported %s %q", what, value)
}
