package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/taxonomy-cli/internal/engine"
	"github.com/sells-group/taxonomy-cli/internal/pipeline"
)

var (
	learnFile          string
	learnApply         bool
	learnMinConfidence int
	learnLimit         int
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Propose taxonomy extensions from unclassified queries",
	Long: `Analyzes unclassified queries and proposes taxonomy extensions. By
default queries come from the store's unclassified queue; --file reads them
from a file instead. Without --apply the proposals are only printed.

With --apply, suggestions at or above --min-confidence are appended to the
taxonomy document after a timestamped backup is written.

Examples:
  taxonomy-cli learn
  taxonomy-cli learn --file unknown.txt --apply
  taxonomy-cli learn --apply --min-confidence 70`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		eng, err := engine.New(cfg)
		if err != nil {
			return eris.Wrap(err, "learn: init engine")
		}

		minConfidence := learnMinConfidence
		if minConfidence <= 0 {
			minConfidence = cfg.Learn.MinConfidence
		}
		limit := learnLimit
		if limit <= 0 {
			limit = cfg.Learn.MaxQueries
		}

		var report any
		if learnFile != "" {
			queries, err := pipeline.ReadQueries(learnFile)
			if err != nil {
				return err
			}
			if limit < len(queries) {
				queries = queries[:limit]
			}
			report, err = eng.Learn(queries, learnApply, minConfidence)
			if err != nil {
				return err
			}
		} else {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			report, err = pipeline.LearnFromStore(ctx, eng, st, limit, learnApply, minConfidence)
			if err != nil {
				return err
			}
		}

		if !learnApply {
			zap.L().Info("dry run, taxonomy not modified (use --apply)")
		}
		return printJSON(report)
	},
}

func init() {
	learnCmd.Flags().StringVar(&learnFile, "file", "", "read queries from a file instead of the store")
	learnCmd.Flags().BoolVar(&learnApply, "apply", false, "apply qualifying suggestions to the taxonomy")
	learnCmd.Flags().IntVar(&learnMinConfidence, "min-confidence", 0, "minimum suggestion confidence to apply (default from config)")
	learnCmd.Flags().IntVar(&learnLimit, "limit", 0, "analyze at most N queries (default from config)")
	rootCmd.AddCommand(learnCmd)
}
