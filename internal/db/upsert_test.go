package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(nil, nil, UpsertConfig{
		Table:        "unclassified_queries",
		Columns:      []string{"id", "query"},
		ConflictKeys: []string{"query"},
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_NoColumns(t *testing.T) {
	_, err := BulkUpsert(nil, nil, UpsertConfig{
		Table:        "unclassified_queries",
		ConflictKeys: []string{"query"},
	}, [][]any{{1, "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestBulkUpsert_NoConflictKeys(t *testing.T) {
	_, err := BulkUpsert(nil, nil, UpsertConfig{
		Table:   "unclassified_queries",
		Columns: []string{"id", "query"},
	}, [][]any{{1, "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestBulkUpsert_Success(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"query", "seen_count"}
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_unclassified_queries"`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_unclassified_queries"}, cols).WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "unclassified_queries" .+ ON CONFLICT \("query"\) DO UPDATE SET "seen_count" = EXCLUDED\."seen_count"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	rows := [][]any{{"a", 1}, {"b", 3}}
	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "unclassified_queries",
		Columns:      cols,
		ConflictKeys: []string{"query"},
	}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_CustomUpdateExpr(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"query", "seen_count", "last_seen"}
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_unclassified_queries"}, cols).WillReturnResult(1)
	mock.ExpectExec(`DO UPDATE SET "seen_count" = unclassified_queries\."seen_count" \+ EXCLUDED\."seen_count", "last_seen" = EXCLUDED\."last_seen"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "unclassified_queries",
		Columns:      cols,
		ConflictKeys: []string{"query"},
		UpdateCols:   []string{"seen_count", "last_seen"},
		UpdateExprs: map[string]string{
			"seen_count": `unclassified_queries."seen_count" + EXCLUDED."seen_count"`,
		},
	}, [][]any{{"a", 2, "now"}})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSanitizeTable(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"runs", `"runs"`},
		{"taxonomy.results", `"taxonomy"."results"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeTable(tt.input))
		})
	}
}

func TestQuoteAndJoin(t *testing.T) {
	assert.Equal(t, `"id", "query", "seen_count"`, quoteAndJoin([]string{"id", "query", "seen_count"}))
}
