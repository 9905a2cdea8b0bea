package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/josephgoksu/contactbook/models"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const nextIDKey = "next_id"

// SQLiteBackend persists the contact list in a single SQLite database file.
// Save replaces every row inside one transaction.
type SQLiteBackend struct {
	path      string
	onCorrupt CorruptPolicy
	logger    *zap.Logger
	db        *sql.DB
	// discard is set when Load reset an unreadable file; the next write
	// replaces it instead of opening it.
	discard bool
}

var _ Backend = (*SQLiteBackend)(nil)

// NewSQLiteBackend creates a SQLiteBackend. The database is opened lazily so
// that a missing file is not created until the first Save.
func NewSQLiteBackend(opts Options) (*SQLiteBackend, error) {
	policy, err := ParseCorruptPolicy(string(opts.OnCorrupt))
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLiteBackend{
		path:      opts.Path,
		onCorrupt: policy,
		logger:    logger.Named("store"),
	}, nil
}

// Location implements Backend.
func (s *SQLiteBackend) Location() string { return s.path }

// Close implements Backend.
func (s *SQLiteBackend) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteBackend) open() (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	s.db = db
	return db, nil
}

// initSchema creates the tables if they don't exist.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contacts (
		id INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,  -- insertion order
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]' -- JSON array
	);

	CREATE INDEX IF NOT EXISTS idx_contacts_position ON contacts(position);
	`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Load implements Backend.
func (s *SQLiteBackend) Load(ctx context.Context) (models.ContactList, error) {
	if s.path == "" {
		return models.NewContactList(), nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.NewContactList(), nil
		}
		return models.ContactList{}, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	_ = f.Close()

	state, err := s.read(ctx)
	if err != nil {
		var perr *PersistenceError
		if errors.As(err, &perr) {
			return models.ContactList{}, err
		}
		if s.onCorrupt == OnCorruptFail {
			return models.ContactList{}, &PersistenceError{Op: "load", Path: s.path, Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
		}
		s.logger.Warn("contacts database is unreadable, starting empty",
			zap.String("path", s.path),
			zap.Error(err),
		)
		_ = s.Close()
		s.discard = true
		return models.NewContactList(), nil
	}
	return state, nil
}

func (s *SQLiteBackend) read(ctx context.Context) (models.ContactList, error) {
	db, err := s.open()
	if err != nil {
		return models.ContactList{}, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}

	var tables int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('meta', 'contacts')`,
	).Scan(&tables); err != nil {
		return models.ContactList{}, fmt.Errorf("inspect schema: %w", err)
	}
	if tables == 0 {
		return models.NewContactList(), nil
	}
	if tables != 2 {
		return models.ContactList{}, errors.New("incomplete schema")
	}

	state := models.ContactList{Contacts: []models.Contact{}}

	var raw string
	err = db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, nextIDKey).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return models.ContactList{}, fmt.Errorf("read next_id: %w", err)
	default:
		if state.NextID, err = strconv.Atoi(raw); err != nil {
			return models.ContactList{}, fmt.Errorf("parse next_id %q: %w", raw, err)
		}
	}

	rows, err := db.QueryContext(ctx, `SELECT id, name, phone, email, tags FROM contacts ORDER BY position`)
	if err != nil {
		return models.ContactList{}, fmt.Errorf("query contacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var c models.Contact
		var tags string
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &tags); err != nil {
			return models.ContactList{}, fmt.Errorf("scan contact: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
			return models.ContactList{}, fmt.Errorf("decode tags of contact %d: %w", c.ID, err)
		}
		state.Contacts = append(state.Contacts, c)
	}
	if err := rows.Err(); err != nil {
		return models.ContactList{}, fmt.Errorf("iterate contacts: %w", err)
	}
	if err := checkIDs(state.Contacts); err != nil {
		return models.ContactList{}, err
	}

	state.Normalize()
	return state, nil
}

// Save implements Backend.
func (s *SQLiteBackend) Save(ctx context.Context, state models.ContactList) error {
	if s.path == "" {
		return nil
	}
	if err := s.write(ctx, state); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	s.logger.Debug("saved contacts",
		zap.String("path", s.path),
		zap.Int("count", len(state.Contacts)),
	)
	return nil
}

func (s *SQLiteBackend) write(ctx context.Context, state models.ContactList) error {
	state = state.Clone()
	state.Normalize()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	if s.discard {
		if err := s.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove unreadable database: %w", err)
		}
		s.logger.Info("replacing unreadable contacts database", zap.String("path", s.path))
		s.discard = false
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	if err := initSchema(ctx, db); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
		return fmt.Errorf("clear contacts: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		nextIDKey, strconv.Itoa(state.NextID),
	); err != nil {
		return fmt.Errorf("write next_id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO contacts (id, position, name, phone, email, tags) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, c := range state.Contacts {
		tags, err := json.Marshal(c.Tags)
		if err != nil {
			return fmt.Errorf("encode tags of contact %d: %w", c.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, i, c.Name, c.Phone, c.Email, string(tags)); err != nil {
			return fmt.Errorf("insert contact %d: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
