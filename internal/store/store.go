package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DBFileName is the database file created inside the data directory.
const DBFileName = "state.db"

// hintPrefix namespaces one-time hint flags.
const hintPrefix = "hint.seen."

// Store is a persistent key to JSON value map.
type Store struct {
	db     *sql.DB
	dbPath string
	logger *slog.Logger
	now    func() time.Time
}

// Options configures Open.
type Options struct {
	// CreateIfNotExists creates the directory and database when missing.
	CreateIfNotExists bool

	// EnableWAL switches the journal to write-ahead logging.
	EnableWAL bool

	// Logger receives failures swallowed by Save and Load. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Entry is one stored key.
type Entry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Open opens the state database in dir.
func Open(dir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dir, DBFileName)

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		}
		return nil, fmt.Errorf("failed to check state database: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{db: db, dbPath: dbPath, logger: logger, now: time.Now}

	ctx := context.Background()
	if opts.EnableWAL {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database. Closing a nil Store is a no-op.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Put stores v, encoded as JSON, under key.
func (s *Store) Put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", key, err)
	}
	return s.PutRaw(ctx, key, data)
}

// PutRaw stores an already encoded JSON value under key.
func (s *Store) PutRaw(ctx context.Context, key string, value json.RawMessage) error {
	if key == "" {
		return ErrEmptyKey
	}
	if !json.Valid(value) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}

	const query = `
	INSERT INTO state (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	updated := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx, query, key, string(value), updated); err != nil {
		return fmt.Errorf("failed to save %q: %w", key, err)
	}
	return nil
}

// Get decodes the value of key into v. It returns ErrNotFound when the key
// is absent.
func (s *Store) Get(ctx context.Context, key string, v any) error {
	raw, err := s.GetRaw(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return nil
}

// GetRaw returns the stored JSON of key.
func (s *Store) GetRaw(ctx context.Context, key string) (json.RawMessage, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return json.RawMessage(value), nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM state WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Entries returns all entries ordered by key.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value, updated_at FROM state ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list state: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			value   string
			updated string
		)
		if err := rows.Scan(&e.Key, &value, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan state row: %w", err)
		}
		e.Value = json.RawMessage(value)
		if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
			e.UpdatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Save stores v under key and ignores any failure.
func (s *Store) Save(ctx context.Context, key string, v any) {
	if s == nil {
		return
	}
	if err := s.Put(ctx, key, v); err != nil {
		s.logger.Debug("failed to save local state", "key", key, "error", err)
	}
}

// Load decodes the value of key into v. It reports false when there is no
// usable value, whatever the reason.
func (s *Store) Load(ctx context.Context, key string, v any) bool {
	if s == nil {
		return false
	}
	if err := s.Get(ctx, key, v); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Debug("failed to load local state", "key", key, "error", err)
		}
		return false
	}
	return true
}

// HintKey returns the key of the one-time hint name.
func HintKey(name string) string {
	return hintPrefix + name
}

// HintSeen reports whether the hint name was already shown.
func (s *Store) HintSeen(ctx context.Context, name string) bool {
	var seen bool
	return s.Load(ctx, HintKey(name), &seen) && seen
}

// MarkHintSeen records that the hint name was shown.
func (s *Store) MarkHintSeen(ctx context.Context, name string) {
	s.Save(ctx, HintKey(name), true)
}

// ShowOnce reports whether the hint name should be shown now, and records
// it as shown. Without a store every hint is shown.
func (s *Store) ShowOnce(ctx context.Context, name string) bool {
	if s.HintSeen(ctx, name) {
		return false
	}
	s.MarkHintSeen(ctx, name)
	return true
}
