// Package runstore persists a log of completed render sweeps to a
// local SQLite database for later comparison across checkpoints and
// LOD configurations.
package runstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// RenderRun is one completed camera sweep and its timing summary.
type RenderRun struct {
	RunID       string  `json:"run_id"`
	Scene       string  `json:"scene"`
	Split       string  `json:"split"`
	Frames      int     `json:"frames"`
	TotalPoints int     `json:"total_points"`
	AvgFPS      float64 `json:"avg_fps"`
	MinFPS      float64 `json:"min_fps"`
	SumSeconds  float64 `json:"sum_seconds"`
	MaxSeconds  float64 `json:"max_seconds"`
	CreatedAtNs int64   `json:"created_at_ns"`
}

// Store provides persistence for render runs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the run log at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("runstore: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS render_runs (
			run_id TEXT PRIMARY KEY,
			scene TEXT NOT NULL,
			split TEXT NOT NULL,
			frames INTEGER NOT NULL,
			total_points INTEGER NOT NULL,
			avg_fps DOUBLE NOT NULL,
			min_fps DOUBLE NOT NULL,
			sum_seconds DOUBLE NOT NULL,
			max_seconds DOUBLE NOT NULL,
			created_at_ns INTEGER NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("runstore: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert persists a run. If RunID is empty, a UUID is generated.
func (s *Store) Insert(run *RenderRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAtNs == 0 {
		run.CreatedAtNs = time.Now().UnixNano()
	}

	_, err := s.db.Exec(`
		INSERT INTO render_runs (
			run_id, scene, split, frames, total_points,
			avg_fps, min_fps, sum_seconds, max_seconds, created_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Scene, run.Split, run.Frames, run.TotalPoints,
		run.AvgFPS, run.MinFPS, run.SumSeconds, run.MaxSeconds, run.CreatedAtNs,
	)
	if err != nil {
		return fmt.Errorf("insert render run: %w", err)
	}
	return nil
}

// ListByScene returns all runs for a scene, newest first.
func (s *Store) ListByScene(sceneName string) ([]*RenderRun, error) {
	rows, err := s.db.Query(`
		SELECT run_id, scene, split, frames, total_points,
		       avg_fps, min_fps, sum_seconds, max_seconds, created_at_ns
		FROM render_runs
		WHERE scene = ?
		ORDER BY created_at_ns DESC`, sceneName)
	if err != nil {
		return nil, fmt.Errorf("query render runs: %w", err)
	}
	defer rows.Close()

	var out []*RenderRun
	for rows.Next() {
		run := &RenderRun{}
		if err := rows.Scan(
			&run.RunID, &run.Scene, &run.Split, &run.Frames, &run.TotalPoints,
			&run.AvgFPS, &run.MinFPS, &run.SumSeconds, &run.MaxSeconds, &run.CreatedAtNs,
		); err != nil {
			return nil, fmt.Errorf("scan render run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
