// Package indexdb keeps a local sqlite index of simulation runs and their
// snapshot checkpoints so verification tooling can look runs up by seed or
// composite checksum without re-reading snapshot files.
package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"seedworld/internal/persistence/snapshot"
)

type SQLiteIndex struct {
	db   *sql.DB
	once sync.Once
}

// Run is one simulation run: a seed, grid dimensions and where it has been
// checkpointed to.
type Run struct {
	ID        string
	CreatedAt string
	Seed      int64
	Width     int
	Height    int
}

// Checkpoint is one recorded snapshot of a run, keyed by tick.
type Checkpoint struct {
	RunID     string
	Tick      uint64
	Composite string
	Path      string
	Agents    int
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	// NORMAL is a decent durability/perf tradeoff for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			seed INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);`,
		`CREATE TABLE IF NOT EXISTS checkpoints (
			run_id TEXT NOT NULL REFERENCES runs(id),
			tick INTEGER NOT NULL,
			composite TEXT NOT NULL,
			path TEXT NOT NULL,
			agents INTEGER NOT NULL,
			PRIMARY KEY (run_id, tick)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_checkpoints_composite ON checkpoints(composite);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	if _, err := db.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		err = s.db.Close()
	})
	return err
}

// BeginRun registers a new run and returns its id.
func (s *SQLiteIndex) BeginRun(seed int64, width, height int) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.Exec(
		`INSERT INTO runs(id,created_at,seed,width,height) VALUES(?,?,?,?,?)`,
		id, now, seed, width, height,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// RecordCheckpoint indexes one written snapshot under its run. Re-recording
// the same tick replaces the row.
func (s *SQLiteIndex) RecordCheckpoint(runID string, snap snapshot.SnapshotV1, composite, path string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO checkpoints(run_id,tick,composite,path,agents) VALUES(?,?,?,?,?)`,
		runID, snap.Header.Tick, composite, path, len(snap.Agents),
	)
	return err
}

// LookupComposite finds every checkpoint that produced the given composite
// checksum, newest run first.
func (s *SQLiteIndex) LookupComposite(composite string) ([]Checkpoint, error) {
	rows, err := s.db.Query(
		`SELECT c.run_id, c.tick, c.composite, c.path, c.agents
		 FROM checkpoints c JOIN runs r ON r.id = c.run_id
		 WHERE c.composite = ?
		 ORDER BY r.created_at DESC, c.tick ASC`,
		composite,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Checkpoint
	for rows.Next() {
		var c Checkpoint
		if err := rows.Scan(&c.RunID, &c.Tick, &c.Composite, &c.Path, &c.Agents); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListRuns returns all runs, newest first.
func (s *SQLiteIndex) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, seed, width, height FROM runs ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Seed, &r.Width, &r.Height); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Checkpoints returns a run's checkpoints in tick order.
func (s *SQLiteIndex) Checkpoints(runID string) ([]Checkpoint, error) {
	rows, err := s.db.Query(
		`SELECT run_id, tick, composite, path, agents FROM checkpoints WHERE run_id = ? ORDER BY tick ASC`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Checkpoint
	for rows.Next() {
		var c Checkpoint
		if err := rows.Scan(&c.RunID, &c.Tick, &c.Composite, &c.Path, &c.Agents); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
