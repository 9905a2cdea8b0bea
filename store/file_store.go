package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/josephgoksu/contactbook/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"
)

const (
	formatJSON   = "json"
	formatYAML   = "yaml"
	formatSQLite = "sqlite"
)

// Options configures a Backend. Only Path is required for a durable store;
// an empty Path selects a session-only backend.
type Options struct {
	Path      string
	Format    string // json, yaml or sqlite; inferred from Path when empty
	OnCorrupt CorruptPolicy
	Fs        afero.Fs // file formats only; defaults to the OS filesystem
	Logger    *zap.Logger
}

// Open returns the backend selected by opts.
func Open(opts Options) (Backend, error) {
	if opts.Path == "" {
		return NewMemoryBackend(), nil
	}
	format, err := resolveFormat(opts.Path, opts.Format)
	if err != nil {
		return nil, err
	}
	opts.Format = format
	if format == formatSQLite {
		return NewSQLiteBackend(opts)
	}
	return NewFileBackend(opts)
}

// FormatFor reports the format Open would use for path and an explicit format.
func FormatFor(path, format string) (string, error) {
	return resolveFormat(path, format)
}

func resolveFormat(path, format string) (string, error) {
	if format != "" {
		switch f := strings.ToLower(format); f {
		case formatJSON, formatYAML, formatSQLite:
			return f, nil
		case "yml":
			return formatYAML, nil
		default:
			return "", &PersistenceError{Op: "configure", Path: path, Err: errUnsupported("format", format)}
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return formatSQLite, nil
	default:
		return formatJSON, nil
	}
}

// FileBackend persists the contact list as a single JSON or YAML document.
type FileBackend struct {
	fs        afero.Fs
	filePath  string
	format    string
	onCorrupt CorruptPolicy
	logger    *zap.Logger
}

var _ Backend = (*FileBackend)(nil)

// NewFileBackend creates a FileBackend. It performs no I/O.
func NewFileBackend(opts Options) (*FileBackend, error) {
	format, err := resolveFormat(opts.Path, opts.Format)
	if err != nil {
		return nil, err
	}
	if format == formatSQLite {
		return nil, &PersistenceError{Op: "configure", Path: opts.Path, Err: errUnsupported("file format", format)}
	}
	policy, err := ParseCorruptPolicy(string(opts.OnCorrupt))
	if err != nil {
		return nil, err
	}
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileBackend{
		fs:        fsys,
		filePath:  opts.Path,
		format:    format,
		onCorrupt: policy,
		logger:    logger.Named("store"),
	}, nil
}

// Location implements Backend.
func (s *FileBackend) Location() string { return s.filePath }

// Close implements Backend. FileBackend holds no open handles between calls.
func (s *FileBackend) Close() error { return nil }

// Load implements Backend.
func (s *FileBackend) Load(_ context.Context) (models.ContactList, error) {
	if s.filePath == "" {
		return models.NewContactList(), nil
	}

	data, err := afero.ReadFile(s.fs, s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("contacts file does not exist yet", zap.String("path", s.filePath))
			return models.NewContactList(), nil
		}
		return models.ContactList{}, &PersistenceError{Op: "load", Path: s.filePath, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return models.NewContactList(), nil
	}

	state, err := decode(s.format, data)
	if err != nil {
		if s.onCorrupt == OnCorruptFail {
			return models.ContactList{}, &PersistenceError{Op: "load", Path: s.filePath, Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
		}
		s.logger.Warn("contacts file is unreadable, starting empty",
			zap.String("path", s.filePath),
			zap.Error(err),
		)
		return models.NewContactList(), nil
	}

	s.logger.Debug("loaded contacts",
		zap.String("path", s.filePath),
		zap.Int("count", len(state.Contacts)),
		zap.Int("next_id", state.NextID),
	)
	return state, nil
}

// Save implements Backend. The document is written to a temporary sibling
// and renamed over the target so readers never observe a half-written file.
func (s *FileBackend) Save(_ context.Context, state models.ContactList) error {
	if s.filePath == "" {
		return nil
	}

	data, err := encode(s.format, state)
	if err != nil {
		return &PersistenceError{Op: "save", Path: s.filePath, Err: err}
	}

	dir := filepath.Dir(s.filePath)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return &PersistenceError{Op: "save", Path: s.filePath, Err: fmt.Errorf("create directory %s: %w", dir, err)}
	}

	tmp, err := afero.TempFile(s.fs, dir, filepath.Base(s.filePath)+".*.tmp")
	if err != nil {
		return &PersistenceError{Op: "save", Path: s.filePath, Err: fmt.Errorf("create temporary file: %w", err)}
	}
	tmpPath := tmp.Name()
	defer func() { _ = s.fs.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &PersistenceError{Op: "save", Path: s.filePath, Err: fmt.Errorf("write temporary file: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Op: "save", Path: s.filePath, Err: fmt.Errorf("close temporary file: %w", err)}
	}
	if err := s.fs.Chmod(tmpPath, 0o644); err != nil {
		return &PersistenceError{Op: "save", Path: s.filePath, Err: err}
	}
	if err := s.fs.Rename(tmpPath, s.filePath); err != nil {
		return &PersistenceError{Op: "save", Path: s.filePath, Err: fmt.Errorf("replace %s: %w", s.filePath, err)}
	}

	s.logger.Debug("saved contacts",
		zap.String("path", s.filePath),
		zap.Int("count", len(state.Contacts)),
	)
	return nil
}

func encode(format string, state models.ContactList) ([]byte, error) {
	state = state.Clone()
	state.Normalize()

	switch format {
	case formatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			return nil, fmt.Errorf("marshal JSON: %w", err)
		}
		return buf.Bytes(), nil
	case formatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(state); err != nil {
			return nil, fmt.Errorf("marshal YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshal YAML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, errUnsupported("format", format)
	}
}

func decode(format string, data []byte) (models.ContactList, error) {
	var state models.ContactList
	switch format {
	case formatJSON:
		if err := json.Unmarshal(data, &state); err != nil {
			return models.ContactList{}, fmt.Errorf("unmarshal JSON: %w", err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &state); err != nil {
			return models.ContactList{}, fmt.Errorf("unmarshal YAML: %w", err)
		}
	default:
		return models.ContactList{}, errUnsupported("format", format)
	}
	if err := checkIDs(state.Contacts); err != nil {
		return models.ContactList{}, err
	}
	state.Normalize()
	return state, nil
}

// checkIDs rejects documents that would break id uniqueness once loaded.
func checkIDs(contacts []models.Contact) error {
	seen := make(map[int]struct{}, len(contacts))
	for i, c := range contacts {
		if c.ID <= 0 {
			return fmt.Errorf("contact at index %d has non-positive id %d", i, c.ID)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("duplicate contact id %d", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}
