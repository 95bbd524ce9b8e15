package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/taxonomy-cli/internal/engine"
	"github.com/sells-group/taxonomy-cli/internal/pipeline"
	"github.com/sells-group/taxonomy-cli/internal/store"
)

var (
	batchFile    string
	batchLimit   int
	batchWorkers int
	batchOutput  string
	batchNoStore bool
	batchWatch   bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Classify a file of queries as one run",
	Long: `Reads queries from a file (CSV or one per line), classifies them
concurrently, and records results, run stats, and unclassified queries
in the store.

Examples:
  taxonomy-cli batch --file queries.txt
  taxonomy-cli batch --file keywords.csv --workers 16 --output results.json
  taxonomy-cli batch --file queries.txt --no-store --limit 100`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		queries, err := pipeline.ReadQueries(batchFile)
		if err != nil {
			return err
		}
		zap.L().Info("loaded queries", zap.String("file", batchFile), zap.Int("count", len(queries)))

		if batchLimit > 0 && batchLimit < len(queries) {
			queries = queries[:batchLimit]
		}

		eng, err := engine.New(cfg)
		if err != nil {
			return eris.Wrap(err, "batch: init engine")
		}

		if batchWatch {
			if err := eng.Watch(ctx); err != nil {
				return eris.Wrap(err, "batch: start taxonomy watcher")
			}
		}

		var st store.Store
		if !batchNoStore {
			if st, err = initStore(ctx); err != nil {
				return err
			}
			defer st.Close()
		}

		workers := batchWorkers
		if workers <= 0 {
			workers = cfg.Batch.Workers
		}

		report, err := pipeline.NewRunner(eng, st, workers).Run(ctx, batchFile, queries)
		if err != nil {
			return err
		}

		if batchOutput != "" {
			if err := writeResultsJSON(batchOutput, report); err != nil {
				return err
			}
		}

		return printJSON(report.Run)
	},
}

func writeResultsJSON(path string, report *pipeline.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "batch: create output file")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report.Results); err != nil {
		return eris.Wrap(err, "batch: write results")
	}
	zap.L().Info("wrote results", zap.String("path", path), zap.Int("count", len(report.Results)))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode json")
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "query file, CSV or one query per line (required)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "classify at most N queries")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "worker count (default from config)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write per-query results to a JSON file")
	batchCmd.Flags().BoolVar(&batchNoStore, "no-store", false, "skip persistence, print stats only")
	batchCmd.Flags().BoolVar(&batchWatch, "watch", false, "reload the taxonomy when its file changes")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
