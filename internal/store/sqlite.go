package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/taxonomy-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	stats      TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS results (
	id             TEXT PRIMARY KEY,
	run_id         TEXT NOT NULL REFERENCES runs(id),
	query          TEXT NOT NULL,
	classification TEXT NOT NULL,
	confidence     REAL NOT NULL,
	match_type     TEXT NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS unclassified_queries (
	id         TEXT PRIMARY KEY,
	query      TEXT NOT NULL UNIQUE,
	seen_count INTEGER NOT NULL DEFAULT 1,
	learned    INTEGER NOT NULL DEFAULT 0,
	first_seen DATETIME NOT NULL DEFAULT (datetime('now')),
	last_seen  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id);
CREATE INDEX IF NOT EXISTS idx_results_match_type ON results(match_type);
CREATE INDEX IF NOT EXISTS idx_unclassified_learned ON unclassified_queries(learned);
CREATE INDEX IF NOT EXISTS idx_unclassified_seen_count ON unclassified_queries(seen_count);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, source string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, source, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		Source:    source,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, stats *model.RunStats) error {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal stats")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET stats = ?, status = ?, updated_at = ? WHERE id = ?`,
		string(statsJSON), string(model.RunStatusComplete), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		string(model.RunStatusFailed), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, status, stats, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)

	var r model.Run
	var statsJSON sql.NullString
	err := row.Scan(&r.ID, &r.Source, &r.Status, &statsJSON, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	if statsJSON.Valid {
		r.Stats = &model.RunStats{}
		if err := json.Unmarshal([]byte(statsJSON.String), r.Stats); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal stats")
		}
	}
	return &r, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, source, status, stats, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, filter.Source)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var statsJSON sql.NullString
		if err := rows.Scan(&r.ID, &r.Source, &r.Status, &statsJSON, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		if statsJSON.Valid {
			r.Stats = &model.RunStats{}
			if err := json.Unmarshal([]byte(statsJSON.String), r.Stats); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal stats")
			}
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) RecordResults(ctx context.Context, runID string, results []model.ClassificationResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin results tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (id, run_id, query, classification, confidence, match_type, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert result")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range results {
		clsJSON, err := json.Marshal(r.Classification)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal classification")
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), runID, r.Query, string(clsJSON), r.Confidence, string(r.MatchType), now,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert result %q", r.Query)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit results")
}

func (s *SQLiteStore) RecordUnclassified(ctx context.Context, query string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO unclassified_queries (id, query, seen_count, learned, first_seen, last_seen)
		 VALUES (?, ?, 1, 0, ?, ?)
		 ON CONFLICT (query) DO UPDATE SET seen_count = seen_count + 1, last_seen = excluded.last_seen`,
		uuid.New().String(), query, now, now,
	)
	return eris.Wrap(err, "sqlite: record unclassified")
}

func (s *SQLiteStore) RecordUnclassifiedBatch(ctx context.Context, counts map[string]int) error {
	if len(counts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin unclassified tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO unclassified_queries (id, query, seen_count, learned, first_seen, last_seen)
		 VALUES (?, ?, ?, 0, ?, ?)
		 ON CONFLICT (query) DO UPDATE SET seen_count = seen_count + excluded.seen_count, last_seen = excluded.last_seen`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare unclassified upsert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for query, count := range counts {
		if _, err := stmt.ExecContext(ctx, uuid.New().String(), query, count, now, now); err != nil {
			return eris.Wrapf(err, "sqlite: upsert unclassified %q", query)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit unclassified")
}

func (s *SQLiteStore) ListUnclassified(ctx context.Context, filter UnclassifiedFilter) ([]model.UnclassifiedQuery, error) {
	query := `SELECT id, query, seen_count, learned, first_seen, last_seen FROM unclassified_queries WHERE 1=1`
	var args []any

	if filter.Learned != nil {
		query += ` AND learned = ?`
		args = append(args, boolToInt(*filter.Learned))
	}
	if filter.MinSeen > 0 {
		query += ` AND seen_count >= ?`
		args = append(args, filter.MinSeen)
	}
	query += ` ORDER BY seen_count DESC, last_seen DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list unclassified")
	}
	defer rows.Close()

	var queries []model.UnclassifiedQuery
	for rows.Next() {
		var q model.UnclassifiedQuery
		var learned int
		if err := rows.Scan(&q.ID, &q.Query, &q.SeenCount, &learned, &q.FirstSeen, &q.LastSeen); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan unclassified")
		}
		q.Learned = learned != 0
		queries = append(queries, q)
	}
	return queries, eris.Wrap(rows.Err(), "sqlite: list unclassified iterate")
}

func (s *SQLiteStore) MarkLearned(ctx context.Context, queries []string) (int, error) {
	if len(queries) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(queries)), ", ")
	args := make([]any, 0, len(queries)+1)
	args = append(args, time.Now().UTC())
	for _, q := range queries {
		args = append(args, q)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE unclassified_queries SET learned = 1, last_seen = ? WHERE query IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: mark learned")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: mark learned rows affected")
	}
	return int(n), nil
}

func checkRowsAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrapf(err, "sqlite: rows affected for %s %s", kind, id)
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", kind, id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
