// Package pipeline runs batch classification over a query source and
// persists results, run stats, and the unclassified queue.
package pipeline

import (
	"bufio"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ReadQueries loads search queries from a file. CSV files use a "query" or
// "keyword" column (falling back to the first column); anything else is read
// one query per line. Blank lines and exact duplicates are dropped.
func ReadQueries(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readQueriesCSV(path)
	default:
		return readQueriesLines(path)
	}
}

func readQueriesLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: open query file")
	}
	defer f.Close()

	seen := make(map[string]bool)
	var queries []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		q := strings.TrimSpace(scanner.Text())
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		queries = append(queries, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: scan query file")
	}
	return queries, nil
}

func readQueriesCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: read csv")
	}
	if len(records) == 0 {
		return nil, eris.New("pipeline: csv is empty")
	}

	// Pick the query column from the header, defaulting to the first.
	queryCol := 0
	hasHeader := false
	for i, col := range records[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "query", "keyword", "search_term":
			queryCol = i
			hasHeader = true
		}
	}

	rows := records
	if hasHeader {
		rows = records[1:]
	}

	seen := make(map[string]bool)
	var queries []string
	for _, row := range rows {
		if queryCol >= len(row) {
			continue
		}
		q := strings.TrimSpace(row[queryCol])
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		queries = append(queries, q)
	}
	return queries, nil
}
