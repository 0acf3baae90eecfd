package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/airsim/doxysearch/internal/searchdata"
)

func newLookupCmd(opts *options) *cobra.Command {
	var (
		dir    string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "lookup <prefix>",
		Short: "Print the symbols whose name starts with prefix",
		Long: `Look up symbols the way the documentation's search box does: the prefix
is matched case-insensitively against every search key, results keep
file order.

Reads --dir, else search_dir from the config, else the embedded sample.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			fsys, source := searchFS(cfg, dir)
			table, err := searchdata.LoadDir(cmd.Context(), fsys, cfg.Category)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", source, err)
			}

			entries := table.Lookup(args[0])
			total := len(entries)
			if limit > 0 && total > limit {
				entries = entries[:limit]
			}

			if asJSON {
				result, err := searchdata.NewTable(entries)
				if err != nil {
					return err
				}
				return searchdata.EncodeJSON(cmd.OutOrStdout(), result)
			}
			printEntries(cmd.OutOrStdout(), entries)
			if len(entries) < total {
				fmt.Fprintf(cmd.OutOrStdout(), "... %d more\n", total-len(entries))
			}
			if total == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No symbols match %q\n", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Doxygen html/search directory")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of symbols to print (0 prints all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the matching entries as a JSON document")
	return cmd
}

func printEntries(w io.Writer, entries []searchdata.IndexEntry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s\n", e.Name())
		for _, m := range e.Matches {
			if text := m.PlainText(); text != "" {
				fmt.Fprintf(w, "  %s  %s\n", m.URL, text)
			} else {
				fmt.Fprintf(w, "  %s\n", m.URL)
			}
		}
	}
}
