// Package trajdb persists trajectories in SQLite. Coordinates, timestamps and
// metadata are stored; derived fields are recomputed on load by the traj
// package, so the database never holds stale derivations.
package trajdb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/trajectory.report/internal/timeutil"
	"github.com/banshee-data/trajectory.report/internal/traj"
)

// ErrNotFound reports a lookup for a trajectory ID that is not in the store.
var ErrNotFound = errors.New("trajectory not found")

// Meta describes a stored trajectory without its point data.
type Meta struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Source    string    `json:"source"` // provenance, e.g. "csv", "generated", "rediscretized"
	Units     string    `json:"units"`
	FPS       float64   `json:"fps"`
	NFrames   int       `json:"n_frames"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps a SQLite database holding trajectories.
type Store struct {
	db    *sql.DB
	clock timeutil.Clock
}

// Open opens (creating if necessary) the SQLite database at path and applies
// any pending migrations.
func Open(path string) (*Store, error) {
	return OpenWithClock(path, timeutil.NewRealClock())
}

// OpenWithClock is Open with an injected clock for created-at stamps.
func OpenWithClock(path string, clock timeutil.Clock) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db, clock: clock}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts a trajectory and returns its generated ID.
func (s *Store) Save(label, source string, t *traj.Trajectory) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO trajectories (id, label, source, units, fps, n_frames, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, label, source, t.Units, t.FPS, t.NFrames, s.clock.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("insert trajectory: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO trajectory_points (trajectory_id, idx, x, y, t)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("prepare point insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < t.NFrames; i++ {
		if _, err := stmt.Exec(id, i, t.X[i], t.Y[i], t.Time[i]); err != nil {
			return "", fmt.Errorf("insert point %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Get loads a trajectory and its metadata by ID. Derived fields are
// recomputed during reconstruction.
func (s *Store) Get(id string) (*traj.Trajectory, *Meta, error) {
	meta, err := s.GetMeta(id)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.Query(`
		SELECT x, y, t FROM trajectory_points
		WHERE trajectory_id = ?
		ORDER BY idx
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("query points: %w", err)
	}
	defer rows.Close()

	x := make([]float64, 0, meta.NFrames)
	y := make([]float64, 0, meta.NFrames)
	times := make([]float64, 0, meta.NFrames)
	for rows.Next() {
		var px, py, pt float64
		if err := rows.Scan(&px, &py, &pt); err != nil {
			return nil, nil, fmt.Errorf("scan point: %w", err)
		}
		x = append(x, px)
		y = append(y, py)
		times = append(times, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate points: %w", err)
	}

	t, err := traj.New(x, y, times, meta.FPS)
	if err != nil {
		return nil, nil, fmt.Errorf("reconstruct trajectory %s: %w", id, err)
	}
	if meta.Units != "" {
		t, err = traj.Scale(t, 1, meta.Units)
		if err != nil {
			return nil, nil, fmt.Errorf("restore units for %s: %w", id, err)
		}
	}
	return t, meta, nil
}

// GetMeta loads only the metadata row for a trajectory.
func (s *Store) GetMeta(id string) (*Meta, error) {
	var m Meta
	err := s.db.QueryRow(`
		SELECT id, label, source, units, fps, n_frames, created_at
		FROM trajectories WHERE id = ?
	`, id).Scan(&m.ID, &m.Label, &m.Source, &m.Units, &m.FPS, &m.NFrames, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query trajectory %s: %w", id, err)
	}
	return &m, nil
}

// List returns metadata for all stored trajectories, newest first.
func (s *Store) List() ([]Meta, error) {
	rows, err := s.db.Query(`
		SELECT id, label, source, units, fps, n_frames, created_at
		FROM trajectories ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list trajectories: %w", err)
	}
	defer rows.Close()

	metas := make([]Meta, 0)
	for rows.Next() {
		var m Meta
		if err := rows.Scan(&m.ID, &m.Label, &m.Source, &m.Units, &m.FPS, &m.NFrames, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan trajectory row: %w", err)
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// Delete removes a trajectory and its points.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM trajectories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete trajectory %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trajectory %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
