package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/airsim/doxysearch/internal/symbols"
)

func newIndexCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "index <search-dir> <index-dir>",
		Short: "Build the full-text symbol index from a search directory",
		Long: `Parse every shard of the category and build the bleve symbol index used by
the search_symbols tool. An existing index at index-dir is replaced.`,
		Example: "  searchctl index docs/html/search ~/.doxysearch/search/index",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			searchDir, indexDir := args[0], args[1]

			log.Printf("Doxygen Symbol Indexer v%d", symbols.IndexSchemaVersion)
			log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

			table, err := loadTable(cmd.Context(), searchDir, cfg.Category)
			if err != nil {
				return fmt.Errorf("failed to load search data: %w", err)
			}
			log.Printf("✓ Loaded %d keys, %d matches from %s", table.Len(), table.MatchCount(), searchDir)

			docs := symbols.Documents(table)
			if err := symbols.Build(indexDir, docs); err != nil {
				return err
			}

			// Verify the index opens and holds every document
			idx, err := symbols.Open(indexDir)
			if err != nil {
				return fmt.Errorf("built index does not open: %w", err)
			}
			count, err := idx.DocCount()
			idx.Close()
			if err != nil {
				return fmt.Errorf("failed to count indexed symbols: %w", err)
			}
			if count != uint64(len(docs)) {
				return fmt.Errorf("index holds %d symbols, expected %d", count, len(docs))
			}

			log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			log.Printf("✓ Indexing complete!")
			log.Printf("")
			log.Printf("Index details:")
			log.Printf("  Location:     %s", indexDir)
			log.Printf("  Symbols:      %d", len(docs))
			log.Printf("  Schema:       v%d", symbols.IndexSchemaVersion)
			fmt.Fprintf(cmd.OutOrStdout(), "%d symbols indexed into %s\n", len(docs), indexDir)
			return nil
		},
	}
}
