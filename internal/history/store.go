package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded resolution.
type Entry struct {
	ID         int64     `json:"id"`
	RequestID  string    `json:"request_id"`
	ItemKind   string    `json:"item_kind"`
	ItemName   string    `json:"item_name"`
	CacheKey   string    `json:"cache_key"`
	Language   string    `json:"language"`
	Source     string    `json:"source"`
	Strategy   string    `json:"strategy"`
	ImageCount int       `json:"image_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store manages the resolution audit trail backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies migrations.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("history path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
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

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const entryColumns = "id, request_id, item_kind, item_name, cache_key, language, source, strategy, image_count, created_at"

// Record inserts a resolution entry and returns it with its assigned id.
func (s *Store) Record(ctx context.Context, entry Entry) (*Entry, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO resolutions (
            request_id, item_kind, item_name, cache_key,
            language, source, strategy, image_count, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RequestID,
		entry.ItemKind,
		entry.ItemName,
		entry.CacheKey,
		entry.Language,
		entry.Source,
		entry.Strategy,
		entry.ImageCount,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert resolution: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches an entry by identifier. Missing ids return nil.
func (s *Store) GetByID(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM resolutions WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get resolution: %w", err)
	}
	return entry, nil
}

// List returns the most recent entries, newest first. A non-positive
// limit returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM resolutions ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resolutions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resolution: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// ListByCacheKey returns the resolution trail for a single item, newest first.
func (s *Store) ListByCacheKey(ctx context.Context, cacheKey string) ([]Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+entryColumns+` FROM resolutions WHERE cache_key = ? ORDER BY id DESC`,
		cacheKey,
	)
	if err != nil {
		return nil, fmt.Errorf("list resolutions by key: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resolution: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Count returns the number of recorded entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM resolutions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count resolutions: %w", err)
	}
	return count, nil
}

// Prune removes entries older than the cutoff and reports how many rows
// were deleted.
func (s *Store) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM resolutions WHERE created_at < ?`,
		olderThan.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("prune resolutions: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var entry Entry
	var createdAt string
	if err := row.Scan(
		&entry.ID,
		&entry.RequestID,
		&entry.ItemKind,
		&entry.ItemName,
		&entry.CacheKey,
		&entry.Language,
		&entry.Source,
		&entry.Strategy,
		&entry.ImageCount,
		&createdAt,
	); err != nil {
		return nil, err
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		entry.CreatedAt = ts
	}
	return &entry, nil
}
