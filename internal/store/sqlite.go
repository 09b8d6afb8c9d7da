// Package store persists analysis runs to SQLite so experiment campaigns can
// be compared after the shared directories are recycled.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ssoonan/pod-activation-experiment/internal/analyze"
)

// Run is one invocation of the analyzer over a results tree.
type Run struct {
	ID          string
	CreatedAt   time.Time
	ResultsDir  string
	Experiments []RunExperiment
}

// RunExperiment is one experiment's stats inside a run.
type RunExperiment struct {
	Group      string
	Experiment string
	Count      int
	MinMs      float64
	MaxMs      float64
	SpreadMs   float64
	StdMs      float64
}

// RunInfo is the shallow listing form of a run.
type RunInfo struct {
	ID           string
	CreatedAt    time.Time
	ResultsDir   string
	Experiments  int
	MeanSpreadMs float64
}

// NewRun flattens analyzer output into a run with a fresh id.
func NewRun(resultsDir string, groups []analyze.Group) *Run {
	run := &Run{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		ResultsDir: resultsDir,
	}
	for _, g := range groups {
		for _, e := range g.Experiments {
			run.Experiments = append(run.Experiments, RunExperiment{
				Group:      g.Name,
				Experiment: e.Name,
				Count:      e.Count,
				MinMs:      e.MinMs,
				MaxMs:      e.MaxMs,
				SpreadMs:   e.SpreadMs,
				StdMs:      e.StdMs,
			})
		}
	}
	return run
}

// Store is a SQLite-backed run archive.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the run database.
func Open(path string) (*Store, error) {
	// WAL and a busy timeout keep concurrent analyzer invocations from
	// tripping over SQLITE_BUSY.
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=10000&_synchronous=NORMAL", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer to avoid lock contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		results_dir TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS experiments (
		run_id TEXT NOT NULL REFERENCES runs(id),
		grp TEXT NOT NULL,
		experiment TEXT NOT NULL,
		record_count INTEGER NOT NULL,
		min_ms REAL NOT NULL,
		max_ms REAL NOT NULL,
		spread_ms REAL NOT NULL,
		std_ms REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_experiments_run ON experiments(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun writes a run and its experiment rows in one transaction.
func (s *Store) SaveRun(run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO runs (id, created_at, results_dir) VALUES (?, ?, ?)",
		run.ID, run.CreatedAt, run.ResultsDir,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, e := range run.Experiments {
		if _, err := tx.Exec(
			`INSERT INTO experiments
			(run_id, grp, experiment, record_count, min_ms, max_ms, spread_ms, std_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, e.Group, e.Experiment, e.Count, e.MinMs, e.MaxMs, e.SpreadMs, e.StdMs,
		); err != nil {
			return fmt.Errorf("failed to insert experiment row: %w", err)
		}
	}

	return tx.Commit()
}

// ListRuns returns all runs, newest first, with per-run aggregates.
func (s *Store) ListRuns() ([]RunInfo, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.created_at, r.results_dir,
		       COUNT(e.run_id), COALESCE(AVG(e.spread_ms), 0)
		FROM runs r
		LEFT JOIN experiments e ON e.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var infos []RunInfo
	for rows.Next() {
		var info RunInfo
		if err := rows.Scan(&info.ID, &info.CreatedAt, &info.ResultsDir,
			&info.Experiments, &info.MeanSpreadMs); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// GetRun loads one run with its experiment rows.
func (s *Store) GetRun(id string) (*Run, error) {
	run := &Run{}
	err := s.db.QueryRow(
		"SELECT id, created_at, results_dir FROM runs WHERE id = ?", id,
	).Scan(&run.ID, &run.CreatedAt, &run.ResultsDir)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT grp, experiment, record_count, min_ms, max_ms, spread_ms, std_ms
		FROM experiments WHERE run_id = ? ORDER BY grp, experiment`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load experiments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e RunExperiment
		if err := rows.Scan(&e.Group, &e.Experiment, &e.Count,
			&e.MinMs, &e.MaxMs, &e.SpreadMs, &e.StdMs); err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		run.Experiments = append(run.Experiments, e)
	}
	return run, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
