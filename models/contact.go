package models

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Contact is a single entry in the contact book.
type Contact struct {
	ID    int      `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name" validate:"required"`
	Phone string   `json:"phone" yaml:"phone" validate:"required"`
	Email string   `json:"email" yaml:"email"`
	Tags  []string `json:"tags" yaml:"tags"`
}

// ContactList is the full persisted state of a contact book.
type ContactList struct {
	NextID   int       `json:"next_id" yaml:"next_id"`
	Contacts []Contact `json:"contacts" yaml:"contacts"`
}

// NewContactList returns an empty state with the counter at 1.
func NewContactList() ContactList {
	return ContactList{NextID: 1, Contacts: []Contact{}}
}

// Normalize repairs a loaded state so that the id invariant holds:
// NextID is raised above the largest id and nil slices become empty.
func (l *ContactList) Normalize() {
	if l.Contacts == nil {
		l.Contacts = []Contact{}
	}
	maxID := 0
	for i := range l.Contacts {
		if l.Contacts[i].Tags == nil {
			l.Contacts[i].Tags = []string{}
		}
		maxID = max(maxID, l.Contacts[i].ID)
	}
	l.NextID = max(l.NextID, maxID+1, 1)
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (l ContactList) Clone() ContactList {
	out := ContactList{NextID: l.NextID, Contacts: make([]Contact, len(l.Contacts))}
	for i, c := range l.Contacts {
		out.Contacts[i] = c.Clone()
	}
	return out
}

// Clone returns a copy of c that does not share the tags slice.
func (c Contact) Clone() Contact {
	c.Tags = append([]string{}, c.Tags...)
	return c
}

// JoinedTags renders tags the way the listing shows them.
func (c Contact) JoinedTags() string {
	return strings.Join(c.Tags, ",")
}

// global validator instance
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator exposes the shared validator so other packages reuse its struct cache.
func Validator() *validator.Validate {
	return validate
}
