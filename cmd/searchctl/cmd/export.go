package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/airsim/doxysearch/internal/searchdata"
)

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir|file>",
		Short: "Write a search index as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			table, err := loadTable(cmd.Context(), args[0], cfg.Category)
			if err != nil {
				return err
			}
			return searchdata.EncodeJSON(cmd.OutOrStdout(), table)
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <json> <out.js>",
		Short: "Regenerate a Doxygen search index artifact from JSON",
		Long: `Validate a JSON document produced by export (or by hand) and write it back
in the generator's all_N.js layout. Use "-" to read the document from stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			table, err := searchdata.DecodeJSON(in)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err := writeArtifact(args[1], table); err != nil {
				return err
			}
			log.Printf("✓ Wrote %s (%d keys, %d matches)", args[1], table.Len(), table.MatchCount())
			return nil
		},
	}
}

// writeArtifact writes table to path through a temp file in the same
// directory so readers never see a partial shard.
func writeArtifact(path string, table *searchdata.Table) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := table.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
