// Package cmd provides the commands of the searchctl CLI.
package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/airsim/doxysearch/internal/config"
	"github.com/airsim/doxysearch/internal/searchdata"
	"github.com/airsim/doxysearch/tools"
)

const version = "0.3.0"

// options are the flags shared by every subcommand.
type options struct {
	configPath string
	category   string
}

// NewRootCmd creates the root command for the searchctl CLI.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "searchctl",
		Short: "Inspect, convert and index Doxygen search data",
		Long: `searchctl works with the client-side search index Doxygen writes to
html/search: prefix lookups, validation, JSON export/import and building
the full-text symbol index served by doxysearch.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("searchctl version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("DOXYSEARCH_CONFIG"), "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.category, "category", "", "Index category to load (overrides config, default \"all\")")

	cmd.AddCommand(
		newLookupCmd(opts),
		newCheckCmd(opts),
		newExportCmd(opts),
		newImportCmd(),
		newIndexCmd(opts),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	log.SetOutput(os.Stderr)
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// loadConfig loads the configuration and applies the --category override.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.category != "" {
		cfg.Category = o.category
	}
	return cfg, nil
}

// loadTable loads a single artifact file, or every shard of category when
// path is a search directory.
func loadTable(ctx context.Context, path, category string) (*searchdata.Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return searchdata.LoadDir(ctx, os.DirFS(path), category)
	}
	return searchdata.LoadFile(path)
}

// searchFS returns the search directory to read: dir when given, else the
// configured one, else the embedded sample.
func searchFS(cfg *config.Config, dir string) (fs.FS, string) {
	switch {
	case dir != "":
		return os.DirFS(dir), dir
	case cfg.SearchDir != "":
		return os.DirFS(cfg.SearchDir), cfg.SearchDir
	default:
		return tools.EmbeddedSearchFS(), "embedded"
	}
}
