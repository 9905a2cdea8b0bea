package store

import (
	"context"

	"github.com/josephgoksu/contactbook/models"
)

// Backend defines the contract for contact book persistence.
// A backend is bound to one location when it is constructed; every Save
// rewrites the whole state rather than applying a diff.
type Backend interface {
	// Load reads the persisted state. A missing location yields an empty
	// state. An unparseable document is handled according to the backend's
	// OnCorrupt policy.
	Load(ctx context.Context) (models.ContactList, error)

	// Save writes the entire state to the bound location, creating any
	// missing parent directories first.
	Save(ctx context.Context, state models.ContactList) error

	// Location returns the bound location, or "" for session-only backends.
	Location() string

	// Close releases any resources held by the backend.
	Close() error
}

// CorruptPolicy decides what Load does with a document it cannot parse.
type CorruptPolicy string

const (
	// OnCorruptReset treats an unparseable document as "nothing usable yet".
	OnCorruptReset CorruptPolicy = "reset"
	// OnCorruptFail surfaces an unparseable document as a PersistenceError.
	OnCorruptFail CorruptPolicy = "fail"
)

// ParseCorruptPolicy converts a configuration value into a CorruptPolicy.
// The empty string selects OnCorruptReset.
func ParseCorruptPolicy(s string) (CorruptPolicy, error) {
	switch CorruptPolicy(s) {
	case "", OnCorruptReset:
		return OnCorruptReset, nil
	case OnCorruptFail:
		return OnCorruptFail, nil
	default:
		return "", &PersistenceError{Op: "configure", Err: errUnsupported("on_corrupt policy", s)}
	}
}
