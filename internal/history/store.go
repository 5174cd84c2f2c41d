package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store records export runs backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history database path is empty")
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
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewID returns a fresh run identifier.
func NewID() string {
	return uuid.NewString()
}

// Record inserts entry, assigning an ID and timestamps when they are unset.
// The stored entry is returned.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.DetectionsPath) == "" {
		return Entry{}, errors.New("record export: detections path is empty")
	}
	switch entry.Status {
	case StatusCompleted, StatusFailed:
	default:
		return Entry{}, fmt.Errorf("record export: invalid status %q", entry.Status)
	}
	if entry.ID == "" {
		entry.ID = NewID()
	} else if _, err := uuid.Parse(entry.ID); err != nil {
		return Entry{}, fmt.Errorf("record export: invalid id %q: %w", entry.ID, err)
	}
	now := time.Now().UTC()
	if entry.FinishedAt.IsZero() {
		entry.FinishedAt = now
	}
	if entry.StartedAt.IsZero() {
		entry.StartedAt = entry.FinishedAt
	}

	err := s.execWithRetry(ctx,
		`INSERT INTO exports (
            id, detections_path, output_path, video_path, frame_count, frame_source,
            track_count, box_count, status, error_message, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.DetectionsPath,
		nullableString(entry.OutputPath),
		nullableString(entry.VideoPath),
		entry.FrameCount,
		nullableString(entry.FrameSource),
		entry.TrackCount,
		entry.BoxCount,
		string(entry.Status),
		nullableString(entry.ErrorMessage),
		entry.StartedAt.UTC().Format(time.RFC3339Nano),
		entry.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert export: %w", err)
	}
	return entry, nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, detections_path, output_path, video_path, frame_count, frame_source,
        track_count, box_count, status, error_message, started_at, finished_at
        FROM exports ORDER BY finished_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return entries, nil
}

// Get fetches a single entry. It returns nil when the id is unknown.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT id, detections_path, output_path, video_path, frame_count, frame_source,
        track_count, box_count, status, error_message, started_at, finished_at
        FROM exports WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		entry                              Entry
		output, video, frameSource, errMsg sql.NullString
		status, startedAt, finishedAt      string
	)
	if err := row.Scan(
		&entry.ID,
		&entry.DetectionsPath,
		&output,
		&video,
		&entry.FrameCount,
		&frameSource,
		&entry.TrackCount,
		&entry.BoxCount,
		&status,
		&errMsg,
		&startedAt,
		&finishedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scan export: %w", err)
	}
	entry.OutputPath = output.String
	entry.VideoPath = video.String
	entry.FrameSource = frameSource.String
	entry.ErrorMessage = errMsg.String
	entry.Status = Status(status)
	entry.StartedAt = parseTime(startedAt)
	entry.FinishedAt = parseTime(finishedAt)
	return entry, nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
