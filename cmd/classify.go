package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/taxonomy-cli/internal/engine"
	"github.com/sells-group/taxonomy-cli/internal/store"
)

var classifyRecord bool

var classifyCmd = &cobra.Command{
	Use:   "classify <query>...",
	Short: "Classify one or more search queries",
	Long: `Classifies each query onto the taxonomy and prints the result as JSON.

Unclassified queries print {"query": ..., "classified": false}. With --record,
unclassified queries are also queued in the store for the learning engine.

Examples:
  taxonomy-cli classify "verizon unlimited plan"
  taxonomy-cli classify --record "quantum flux phone"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, err := engine.New(cfg)
		if err != nil {
			return eris.Wrap(err, "classify: init engine")
		}

		var st store.Store
		if classifyRecord {
			if st, err = initStore(ctx); err != nil {
				return err
			}
			defer st.Close()
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		for _, query := range args {
			res := eng.Classify(query)
			if res == nil {
				if st != nil {
					if err := st.RecordUnclassified(ctx, query); err != nil {
						return err
					}
				}
				fmt.Fprintf(os.Stdout, "{\"query\": %q, \"classified\": false}\n", query)
				continue
			}
			if err := enc.Encode(res); err != nil {
				return eris.Wrap(err, "classify: encode result")
			}
		}
		return nil
	},
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyRecord, "record", false, "queue unclassified queries in the store")
	rootCmd.AddCommand(classifyCmd)
}
