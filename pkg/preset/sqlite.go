package preset

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/carousel/pkg/errors"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = stderrors.New("schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// SQLiteStore persists presets in a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens or creates the preset database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sqlite path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLiteStore{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save upserts p by name, keeping the original ID and creation time.
func (s *SQLiteStore) Save(ctx context.Context, p *Preset) error {
	if err := errors.ValidatePresetName(p.Name); err != nil {
		return err
	}
	opts, err := json.Marshal(p.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	err = retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO presets (id, name, description, options, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?)
             ON CONFLICT(name) DO UPDATE SET
                 description = excluded.description,
                 options = excluded.options,
                 updated_at = excluded.updated_at`,
			p.ID, p.Name, p.Description, string(opts), now, now,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("save preset %s: %w", p.Name, err)
	}

	saved, err := s.Get(ctx, p.Name)
	if err != nil {
		return err
	}
	*p = *saved
	return nil
}

// Get returns the preset called name, or PRESET_NOT_FOUND.
func (s *SQLiteStore) Get(ctx context.Context, name string) (*Preset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, options, created_at, updated_at
         FROM presets WHERE name = ?`, name)
	p, err := scanPreset(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("get preset %s: %w", name, err)
	}
	return p, nil
}

// List returns all presets ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]*Preset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, options, created_at, updated_at
         FROM presets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	out := []*Preset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("list presets: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes the preset called name, or returns PRESET_NOT_FOUND.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var err error
		res, err = s.db.ExecContext(ctx, `DELETE FROM presets WHERE name = ?`, name)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete preset %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound(name)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(r rowScanner) (*Preset, error) {
	var (
		p                Preset
		opts             string
		created, updated string
	)
	if err := r.Scan(&p.ID, &p.Name, &p.Description, &opts, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(opts), &p.Options); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode options of preset %s", p.Name)
	}
	var err error
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &p, nil
}

// =============================================================================
// Schema
// =============================================================================

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset presets)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *SQLiteStore) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// =============================================================================
// Busy Retry
// =============================================================================

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if stderrors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

var _ Store = (*SQLiteStore)(nil)
