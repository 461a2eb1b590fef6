package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/wardrobe/internal/domain/model"
	"github.com/okian/wardrobe/pkg/metrics"
)

//go:embed schema.sql
var schemaSQL string

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// SQLiteStore persists characters in a SQLite database file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer at a time; the pragmas below then hold for every statement.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if n, err := s.Count(ctx); err == nil {
		metrics.UpdateCharactersStored(n)
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save implements Store.Save.
func (s *SQLiteStore) Save(ctx context.Context, c model.Character) error { //nolint:gocritic // value semantics
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("save", float64(time.Since(start).Milliseconds()))
	}()

	if err := validate(&c); err != nil {
		return err
	}
	cfgJSON, err := json.Marshal(c.Configuration)
	if err != nil {
		return fmt.Errorf("marshal configuration: %w", err)
	}
	created := c.CreatedAt.UTC()

	err = retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx,
			`INSERT INTO characters (id, name, description, configuration_json, created_at, created_unix_nano)
             VALUES (?, ?, ?, ?, ?, ?)
             ON CONFLICT(id) DO UPDATE SET
                name = excluded.name,
                description = excluded.description,
                configuration_json = excluded.configuration_json,
                created_at = excluded.created_at,
                created_unix_nano = excluded.created_unix_nano`,
			c.ID, c.Name, c.Description, string(cfgJSON),
			created.Format(time.RFC3339Nano), created.UnixNano(),
		)
		return execErr
	})
	if err != nil {
		metrics.RecordErrorByComponent("repository", "save_failed")
		return fmt.Errorf("insert character: %w", err)
	}

	if n, err := s.Count(ctx); err == nil {
		metrics.UpdateCharactersStored(n)
	}
	return nil
}

// Get implements Store.Get.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.Character, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, configuration_json, created_at FROM characters WHERE id = ?`, id)
	c, err := scanCharacter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Character{}, ErrNotFound
	}
	return c, err
}

// List implements Store.List.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.Character, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("list", float64(time.Since(start).Milliseconds()))
	}()

	if limit < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, configuration_json, created_at FROM characters
         ORDER BY created_unix_nano DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	out := make([]model.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate characters: %w", err)
	}
	return out, nil
}

// Delete implements Store.Delete.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	if count, err := s.Count(ctx); err == nil {
		metrics.UpdateCharactersStored(count)
	}
	return nil
}

// Count implements Store.Count.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM characters`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count characters: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row scanner) (model.Character, error) {
	var (
		c       model.Character
		cfgJSON string
		created string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &cfgJSON, &created); err != nil {
		return model.Character{}, err
	}
	if err := json.Unmarshal([]byte(cfgJSON), &c.Configuration); err != nil {
		return model.Character{}, fmt.Errorf("decode configuration for %s: %w", c.ID, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return model.Character{}, fmt.Errorf("parse created_at for %s: %w", c.ID, err)
	}
	c.CreatedAt = ts
	return c, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
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
