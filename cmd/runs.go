package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/taxonomy-cli/internal/model"
	"github.com/sells-group/taxonomy-cli/internal/store"
)

var (
	runsStatus string
	runsLimit  int
)

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List batch runs, or show one with its stats",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if len(args) == 1 {
			run, err := st.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return eris.Errorf("run not found: %s", args[0])
			}
			return printJSON(run)
		}

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(runsStatus),
			Limit:  runsLimit,
		})
		if err != nil {
			return err
		}
		return printJSON(runs)
	},
}

var (
	queueMinSeen int
	queueLimit   int
	queueAll     bool
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "List queued unclassified queries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		filter := store.UnclassifiedFilter{MinSeen: queueMinSeen, Limit: queueLimit}
		if !queueAll {
			learned := false
			filter.Learned = &learned
		}

		queued, err := st.ListUnclassified(ctx, filter)
		if err != nil {
			return err
		}
		return printJSON(queued)
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsStatus, "status", "", "filter by status (running, complete, failed)")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 0, "list at most N runs")
	rootCmd.AddCommand(runsCmd)

	queueCmd.Flags().IntVar(&queueMinSeen, "min-seen", 0, "only queries seen at least N times")
	queueCmd.Flags().IntVar(&queueLimit, "limit", 0, "list at most N queries")
	queueCmd.Flags().BoolVar(&queueAll, "all", false, "include already-learned queries")
	rootCmd.AddCommand(queueCmd)
}
