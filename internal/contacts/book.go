// Package contacts implements the contact book: an ordered collection of
// contact records with a monotonically increasing id counter, persisted in
// full through a store.Backend after every mutation.
package contacts

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/josephgoksu/contactbook/models"
	"github.com/josephgoksu/contactbook/store"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// SortKey selects the ordering used by List.
type SortKey string

const (
	SortByName SortKey = "name"
	SortByID   SortKey = "id"
)

// ParseSortKey maps a user-supplied key to a SortKey. Unrecognised keys fall
// back to SortByName and report ok=false.
func ParseSortKey(s string) (key SortKey, ok bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortByName:
		return SortByName, true
	case SortByID:
		return SortByID, true
	default:
		return SortByName, false
	}
}

// NewContact is the input to Add. Email and Tags are optional.
type NewContact struct {
	Name  string   `validate:"required"`
	Phone string   `validate:"required"`
	Email string   `validate:"omitempty"`
	Tags  []string `validate:"omitempty"`
}

// normalized trims every field and drops blank tags.
func (n NewContact) normalized() NewContact {
	out := NewContact{
		Name:  strings.TrimSpace(n.Name),
		Phone: strings.TrimSpace(n.Phone),
		Email: strings.TrimSpace(n.Email),
		Tags:  make([]string, 0, len(n.Tags)),
	}
	for _, tag := range n.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out.Tags = append(out.Tags, tag)
		}
	}
	return out
}

// Book owns the contact records and the next-id counter.
type Book struct {
	mu      sync.Mutex
	state   models.ContactList
	backend store.Backend
	logger  *zap.Logger
}

// Open loads the state from backend and returns a Book bound to it.
// A nil backend gives a session-only book.
func Open(ctx context.Context, backend store.Backend, logger *zap.Logger) (*Book, error) {
	if backend == nil {
		backend = store.NewMemoryBackend()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	state, err := backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	state.Normalize()

	return &Book{
		state:   state,
		backend: backend,
		logger:  logger.Named("contacts"),
	}, nil
}

// Location returns the bound persistence location, or "" when session-only.
func (b *Book) Location() string { return b.backend.Location() }

// Len returns the number of records.
func (b *Book) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.state.Contacts)
}

// NextID returns the id the next Add will assign.
func (b *Book) NextID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.NextID
}

// Get returns the record with the given id.
func (b *Book) Get(id int) (models.Contact, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(id)
	if i < 0 {
		return models.Contact{}, false
	}
	return b.state.Contacts[i].Clone(), true
}

// Add validates in, assigns the next id, appends the record and persists the
// whole book. On any error the book is left exactly as it was.
func (b *Book) Add(ctx context.Context, in NewContact) (models.Contact, error) {
	in = in.normalized()
	if err := validateNewContact(in); err != nil {
		return models.Contact{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	c := models.Contact{
		ID:    b.state.NextID,
		Name:  in.Name,
		Phone: in.Phone,
		Email: in.Email,
		Tags:  in.Tags,
	}
	next := models.ContactList{
		NextID:   b.state.NextID + 1,
		Contacts: append(slices.Clip(b.state.Contacts), c),
	}
	if err := b.backend.Save(ctx, next); err != nil {
		return models.Contact{}, err
	}
	b.state = next

	b.logger.Debug("contact added", zap.Int("id", c.ID), zap.Int("next_id", next.NextID))
	return c.Clone(), nil
}

// List returns every record ordered by key. Name ordering is case-insensitive;
// records with equal keys keep their insertion order, also when reversed.
func (b *Book) List(key SortKey, reverse bool) []models.Contact {
	if key != SortByName && key != SortByID {
		b.logger.Debug("unknown sort key, falling back to name", zap.String("key", string(key)))
		key = SortByName
	}

	out := b.snapshot()

	var compare func(a, c models.Contact) int
	switch key {
	case SortByID:
		compare = func(a, c models.Contact) int { return cmp.Compare(a.ID, c.ID) }
	default:
		fold := cases.Fold()
		keys := make(map[int]string, len(out))
		for _, c := range out {
			keys[c.ID] = fold.String(c.Name)
		}
		compare = func(a, c models.Contact) int { return strings.Compare(keys[a.ID], keys[c.ID]) }
	}

	slices.SortStableFunc(out, func(a, c models.Contact) int {
		if reverse {
			return compare(c, a)
		}
		return compare(a, c)
	})
	return out
}

// Find returns the records whose name, phone, email or tags contain query,
// ignoring case, in insertion order. A blank query matches nothing.
func (b *Book) Find(query string) []models.Contact {
	q := strings.TrimSpace(query)
	if q == "" {
		return []models.Contact{}
	}

	fold := cases.Fold()
	q = fold.String(q)

	hits := []models.Contact{}
	for _, c := range b.snapshot() {
		if strings.Contains(fold.String(haystack(c)), q) {
			hits = append(hits, c)
		}
	}
	return hits
}

func haystack(c models.Contact) string {
	return strings.Join([]string{c.Name, c.Phone, c.Email, strings.Join(c.Tags, " ")}, " ")
}

// Delete removes the record with the given id and persists the book.
// It reports false, without writing, when no such record exists.
// Deleted ids are never handed out again.
func (b *Book) Delete(ctx context.Context, id int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := models.ContactList{
		NextID:   b.state.NextID,
		Contacts: slices.Concat(b.state.Contacts[:i], b.state.Contacts[i+1:]),
	}
	if err := b.backend.Save(ctx, next); err != nil {
		return false, err
	}
	b.state = next

	b.logger.Debug("contact deleted", zap.Int("id", id))
	return true, nil
}

// snapshot copies the records so callers may reorder or mutate them freely.
func (b *Book) snapshot() []models.Contact {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Contact, len(b.state.Contacts))
	for i, c := range b.state.Contacts {
		out[i] = c.Clone()
	}
	return out
}

func (b *Book) indexOf(id int) int {
	return slices.IndexFunc(b.state.Contacts, func(c models.Contact) bool { return c.ID == id })
}

func validateNewContact(in NewContact) error {
	err := models.Validator().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: strings.ToLower(fe.Field()), Rule: fe.Tag()})
	}
	return out
}
