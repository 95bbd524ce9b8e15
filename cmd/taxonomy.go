package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/taxonomy-cli/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect the taxonomy document",
}

var taxonomyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print per-level counts and keyword distribution",
	RunE: func(_ *cobra.Command, _ []string) error {
		doc, err := taxonomy.Load(cfg.Taxonomy.Path)
		if err != nil {
			return err
		}
		return printJSON(taxonomy.ComputeStats(doc))
	},
}

var taxonomyCategoriesCmd = &cobra.Command{
	Use:   "categories [l1-id]",
	Short: "List L1 categories, or the topics under one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		doc, err := taxonomy.Load(cfg.Taxonomy.Path)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return printJSON(taxonomy.Categories(doc))
		}
		topics := taxonomy.CategoryTopics(doc, args[0])
		if topics == nil {
			return eris.Errorf("category not found: %s", args[0])
		}
		return printJSON(topics)
	},
}

func init() {
	taxonomyCmd.AddCommand(taxonomyStatsCmd)
	taxonomyCmd.AddCommand(taxonomyCategoriesCmd)
	rootCmd.AddCommand(taxonomyCmd)
}
