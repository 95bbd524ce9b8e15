package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/taxonomy-cli/internal/db"
	"github.com/sells-group/taxonomy-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_run":          `INSERT INTO runs (id, source, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
	"complete_run":        `UPDATE runs SET stats = $1, status = $2, updated_at = $3 WHERE id = $4`,
	"fail_run":            `UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
	"get_run":             `SELECT id, source, status, stats, created_at, updated_at FROM runs WHERE id = $1`,
	"insert_unclassified": `INSERT INTO unclassified_queries (id, query, seen_count, learned, first_seen, last_seen) VALUES ($1, $2, 1, false, $3, $4) ON CONFLICT (query) DO UPDATE SET seen_count = unclassified_queries.seen_count + 1, last_seen = EXCLUDED.last_seen`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool, primarily for tests.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	source     TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	stats      JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS results (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	run_id         TEXT NOT NULL REFERENCES runs(id),
	query          TEXT NOT NULL,
	classification JSONB NOT NULL,
	confidence     DOUBLE PRECISION NOT NULL,
	match_type     TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS unclassified_queries (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	query      TEXT NOT NULL UNIQUE,
	seen_count INTEGER NOT NULL DEFAULT 1,
	learned    BOOLEAN NOT NULL DEFAULT false,
	first_seen TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_seen  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id);
CREATE INDEX IF NOT EXISTS idx_results_match_type ON results(match_type);
CREATE INDEX IF NOT EXISTS idx_unclassified_learned ON unclassified_queries(learned);
CREATE INDEX IF NOT EXISTS idx_unclassified_seen_count ON unclassified_queries(seen_count DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, source string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, source, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, source, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:        id,
		Source:    source,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, stats *model.RunStats) error {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal stats")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET stats = $1, status = $2, updated_at = $3 WHERE id = $4`,
		statsJSON, string(model.RunStatusComplete), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) FailRun(ctx context.Context, runID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(model.RunStatusFailed), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	var r model.Run
	var statsJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, source, status, stats, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	).Scan(&r.ID, &r.Source, &r.Status, &statsJSON, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}

	if statsJSON != nil {
		r.Stats = &model.RunStats{}
		if err := json.Unmarshal(statsJSON, r.Stats); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal stats")
		}
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, source, status, stats, created_at, updated_at FROM runs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.Source != "" {
		query += fmt.Sprintf(` AND source = $%d`, argIdx)
		args = append(args, filter.Source)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var statsJSON []byte

		if err := rows.Scan(&r.ID, &r.Source, &r.Status, &statsJSON, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if statsJSON != nil {
			r.Stats = &model.RunStats{}
			if err := json.Unmarshal(statsJSON, r.Stats); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal stats")
			}
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

// RecordResults bulk-inserts classification results using COPY. Batch runs
// write tens of thousands of rows per run, so row-at-a-time inserts are
// too slow here.
func (s *PostgresStore) RecordResults(ctx context.Context, runID string, results []model.ClassificationResult) error {
	if len(results) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(results))
	for _, r := range results {
		clsJSON, err := json.Marshal(r.Classification)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal classification")
		}
		rows = append(rows, []any{
			uuid.New().String(), runID, r.Query, clsJSON, r.Confidence, string(r.MatchType), now,
		})
	}

	_, err := db.CopyFrom(ctx, s.pool, "results",
		[]string{"id", "run_id", "query", "classification", "confidence", "match_type", "created_at"},
		rows,
	)
	return eris.Wrapf(err, "postgres: record results for run %s", runID)
}

func (s *PostgresStore) RecordUnclassified(ctx context.Context, query string) error {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO unclassified_queries (id, query, seen_count, learned, first_seen, last_seen)
		 VALUES ($1, $2, 1, false, $3, $4)
		 ON CONFLICT (query) DO UPDATE SET seen_count = unclassified_queries.seen_count + 1, last_seen = EXCLUDED.last_seen`,
		uuid.New().String(), query, now, now,
	)
	return eris.Wrap(err, "postgres: record unclassified")
}

// RecordUnclassifiedBatch upserts accumulated per-query counts in one round
// trip. Seen counts add across batches rather than overwrite.
func (s *PostgresStore) RecordUnclassifiedBatch(ctx context.Context, counts map[string]int) error {
	if len(counts) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(counts))
	for query, count := range counts {
		rows = append(rows, []any{uuid.New().String(), query, count, false, now, now})
	}

	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "unclassified_queries",
		Columns:      []string{"id", "query", "seen_count", "learned", "first_seen", "last_seen"},
		ConflictKeys: []string{"query"},
		UpdateCols:   []string{"seen_count", "last_seen"},
		UpdateExprs: map[string]string{
			"seen_count": `unclassified_queries."seen_count" + EXCLUDED."seen_count"`,
		},
	}, rows)
	return eris.Wrap(err, "postgres: record unclassified batch")
}

func (s *PostgresStore) ListUnclassified(ctx context.Context, filter UnclassifiedFilter) ([]model.UnclassifiedQuery, error) {
	query := `SELECT id, query, seen_count, learned, first_seen, last_seen FROM unclassified_queries WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Learned != nil {
		query += fmt.Sprintf(` AND learned = $%d`, argIdx)
		args = append(args, *filter.Learned)
		argIdx++
	}
	if filter.MinSeen > 0 {
		query += fmt.Sprintf(` AND seen_count >= $%d`, argIdx)
		args = append(args, filter.MinSeen)
		argIdx++
	}
	query += ` ORDER BY seen_count DESC, last_seen DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list unclassified")
	}
	defer rows.Close()

	var queries []model.UnclassifiedQuery
	for rows.Next() {
		var q model.UnclassifiedQuery
		if err := rows.Scan(&q.ID, &q.Query, &q.SeenCount, &q.Learned, &q.FirstSeen, &q.LastSeen); err != nil {
			return nil, eris.Wrap(err, "postgres: scan unclassified")
		}
		queries = append(queries, q)
	}
	return queries, eris.Wrap(rows.Err(), "postgres: list unclassified iterate")
}

func (s *PostgresStore) MarkLearned(ctx context.Context, queries []string) (int, error) {
	if len(queries) == 0 {
		return 0, nil
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE unclassified_queries SET learned = true, last_seen = $1 WHERE query = ANY($2)`,
		time.Now().UTC(), queries,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: mark learned")
	}
	return int(tag.RowsAffected()), nil
}
