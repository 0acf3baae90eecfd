package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <dir|file>",
		Short: "Validate a search index artifact or search directory",
		Long: `Load an all_N.js file, or every shard of the category in a search
directory, and report its size. Exits non-zero when anything is malformed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			table, err := loadTable(cmd.Context(), args[0], cfg.Category)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d keys, %d matches\n", args[0], table.Len(), table.MatchCount())
			return nil
		},
	}
}
