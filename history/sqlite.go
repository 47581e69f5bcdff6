//go:build sqlite

package history

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/baldhumanity/dino-evo/evolution"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, pop_size, generations, best_ever_score, best_ever_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			generations = excluded.generations,
			best_ever_score = excluded.best_ever_score,
			best_ever_id = excluded.best_ever_id
	`, run.ID, run.StartedAt.UTC().Format(time.RFC3339Nano), run.PopSize, run.Generations, run.BestEverScore, run.BestEverID)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}

	var (
		run       Run
		startedAt string
	)
	err = db.QueryRowContext(ctx, `
		SELECT id, started_at, pop_size, generations, best_ever_score, best_ever_id
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &startedAt, &run.PopSize, &run.Generations, &run.BestEverScore, &run.BestEverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}
	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

func (s *SQLiteStore) AppendGeneration(ctx context.Context, runID string, stats evolution.GenerationStats) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO generations (run_id, generation, max_score, avg_score, min_score, variance, stddev)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, stats.Generation, stats.Max, stats.Avg, stats.Min, stats.Variance, stats.StdDev)
	return err
}

func (s *SQLiteStore) GetGenerations(ctx context.Context, runID string) ([]evolution.GenerationStats, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT generation, max_score, avg_score, min_score, variance, stddev
		FROM generations WHERE run_id = ? ORDER BY generation
	`, runID)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var records []evolution.GenerationStats
	for rows.Next() {
		var r evolution.GenerationStats
		if err := rows.Scan(&r.Generation, &r.Max, &r.Avg, &r.Min, &r.Variance, &r.StdDev); err != nil {
			return nil, false, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	return records, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			pop_size INTEGER NOT NULL,
			generations INTEGER NOT NULL,
			best_ever_score INTEGER NOT NULL,
			best_ever_id TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			max_score INTEGER NOT NULL,
			avg_score INTEGER NOT NULL,
			min_score INTEGER NOT NULL,
			variance REAL NOT NULL,
			stddev REAL NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	return err
}
