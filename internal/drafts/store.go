// Package drafts persists session wizard state in a local SQLite database
// so an interrupted creation flow can be resumed without re-entering
// metadata or re-uploading finished cameras.
package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"slate/internal/config"
	"slate/internal/media"
)

// ErrNotFound indicates no draft exists for the given id.
var ErrNotFound = errors.New("draft not found")

// Draft is the wizard accumulator: metadata from step one plus the asset
// ids registered so far in step two. Later saves merge over earlier ones,
// so stepping back never loses state.
type Draft struct {
	ID            string
	Step          int
	Title         string
	RecordingDate time.Time
	Description   string
	EventType     string
	AnchorAngle   media.CameraAngle
	AssetIDs      map[media.CameraAngle]string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Store manages draft persistence backed by SQLite. A file lock next to
// the database keeps concurrent CLI invocations from interleaving writes.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	path string
}

// Open initializes or connects to the drafts database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DraftsDBPath()
	lock := flock.New(dbPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire drafts lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("drafts database %s is locked by another process", dbPath)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
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
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, lock: lock, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close releases the database connection and the file lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var dbErr error
	if s.db != nil {
		dbErr = s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && dbErr == nil {
			dbErr = err
		}
	}
	return dbErr
}

// New creates an empty draft with wizard defaults.
func (s *Store) New(ctx context.Context) (*Draft, error) {
	now := time.Now().UTC()
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_drafts (id, step, created_at, updated_at) VALUES (?, 1, ?, ?)`,
		id, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert draft: %w", err)
	}
	return s.Get(ctx, id)
}

// Save upserts the draft's mutable fields.
func (s *Store) Save(ctx context.Context, draft *Draft) error {
	if draft.ID == "" {
		return fmt.Errorf("save draft: missing id")
	}
	now := time.Now().UTC()
	var recordingDate any
	if !draft.RecordingDate.IsZero() {
		recordingDate = draft.RecordingDate.UTC().Format(time.RFC3339Nano)
	}
	anchor := draft.AnchorAngle
	if anchor == "" {
		anchor = media.AngleA
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE session_drafts SET
            step = ?, title = ?, recording_date = ?, description = ?,
            event_type = ?, anchor_angle = ?, asset_a = ?, asset_b = ?, asset_c = ?,
            updated_at = ?
         WHERE id = ?`,
		draft.Step,
		draft.Title,
		recordingDate,
		draft.Description,
		draft.EventType,
		string(anchor),
		nullableString(draft.AssetIDs[media.AngleA]),
		nullableString(draft.AssetIDs[media.AngleB]),
		nullableString(draft.AssetIDs[media.AngleC]),
		now.Format(time.RFC3339Nano),
		draft.ID,
	)
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, draft.ID)
	}
	draft.UpdatedAt = now
	return nil
}

// Get fetches one draft by id.
func (s *Store) Get(ctx context.Context, id string) (*Draft, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, step, title, recording_date, description, event_type,
                anchor_angle, asset_a, asset_b, asset_c, created_at, updated_at
         FROM session_drafts WHERE id = ?`, id)
	draft, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return draft, err
}

// Latest returns the most recently touched draft, or ErrNotFound when the
// store is empty.
func (s *Store) Latest(ctx context.Context) (*Draft, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, step, title, recording_date, description, event_type,
                anchor_angle, asset_a, asset_b, asset_c, created_at, updated_at
         FROM session_drafts ORDER BY updated_at DESC LIMIT 1`)
	draft, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return draft, err
}

// List returns all drafts, most recently touched first.
func (s *Store) List(ctx context.Context) ([]*Draft, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, step, title, recording_date, description, event_type,
                anchor_angle, asset_a, asset_b, asset_c, created_at, updated_at
         FROM session_drafts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var out []*Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, draft)
	}
	return out, rows.Err()
}

// Delete removes a draft, typically after the session is created.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (*Draft, error) {
	var (
		draft         Draft
		recordingDate sql.NullString
		anchor        string
		assetA        sql.NullString
		assetB        sql.NullString
		assetC        sql.NullString
		createdAt     string
		updatedAt     string
	)
	err := row.Scan(&draft.ID, &draft.Step, &draft.Title, &recordingDate,
		&draft.Description, &draft.EventType, &anchor,
		&assetA, &assetB, &assetC, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	draft.AnchorAngle = media.CameraAngle(anchor)
	draft.AssetIDs = make(map[media.CameraAngle]string, 3)
	if assetA.Valid && assetA.String != "" {
		draft.AssetIDs[media.AngleA] = assetA.String
	}
	if assetB.Valid && assetB.String != "" {
		draft.AssetIDs[media.AngleB] = assetB.String
	}
	if assetC.Valid && assetC.String != "" {
		draft.AssetIDs[media.AngleC] = assetC.String
	}
	if recordingDate.Valid && recordingDate.String != "" {
		if ts, err := time.Parse(time.RFC3339Nano, recordingDate.String); err == nil {
			draft.RecordingDate = ts
		}
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		draft.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		draft.UpdatedAt = ts
	}
	return &draft, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
