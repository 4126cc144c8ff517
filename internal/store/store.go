// Package store handles SQLite persistence of calibration samples.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNoSamples is returned when calibration is requested without recorded shots.
var ErrNoSamples = errors.New("no calibration samples recorded")

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for recorded shots.
type Store struct {
	db *sql.DB
}

// Filter narrows ListSamples.
type Filter struct {
	Since *time.Time
	Limit int
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS samples (
			id INTEGER PRIMARY KEY,
			recorded_at TEXT NOT NULL,
			velocity REAL NOT NULL,
			angle REAL NOT NULL,
			wind REAL NOT NULL,
			dx REAL NOT NULL,
			dy REAL NOT NULL,
			note TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_samples_recorded_at ON samples(recorded_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSample stores a recorded shot and returns its id.
func (s *Store) InsertSample(ctx context.Context, sample model.Sample) (int64, error) {
	if sample.RecordedAt.IsZero() {
		sample.RecordedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO samples (recorded_at, velocity, angle, wind, dx, dy, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sample.RecordedAt.UTC().Format(timeLayout),
		sample.Velocity,
		sample.Angle,
		sample.Wind,
		sample.DX,
		sample.DY,
		sample.Note,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteSample removes a recorded shot. Deleting a missing id is an error.
func (s *Store) DeleteSample(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM samples WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("sample %d not found", id)
	}
	return nil
}

// ListSamples returns recorded shots, oldest first.
func (s *Store) ListSamples(ctx context.Context, f Filter) ([]model.Sample, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if f.Since != nil {
		clauses = append(clauses, "recorded_at >= ?")
		args = append(args, f.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, recorded_at, velocity, angle, wind, dx, dy, note
		FROM samples
		WHERE %s
		ORDER BY recorded_at ASC, id ASC`, strings.Join(clauses, " AND "))
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var samples []model.Sample
	for rows.Next() {
		var sample model.Sample
		var recordedAt string
		if err := rows.Scan(&sample.ID, &recordedAt, &sample.Velocity, &sample.Angle, &sample.Wind, &sample.DX, &sample.DY, &sample.Note); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, err
		}
		sample.RecordedAt = parsed
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

// CalibrationSamples returns every recorded shot or ErrNoSamples.
func (s *Store) CalibrationSamples(ctx context.Context) ([]model.Sample, error) {
	samples, err := s.ListSamples(ctx, Filter{})
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	return samples, nil
}
