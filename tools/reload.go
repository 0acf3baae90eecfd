package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReloadSearchIndexInput defines input for reload_search_index tool
type ReloadSearchIndexInput struct {
	Force bool `json:"force,omitempty" jsonschema:"Rebuild even when the search files are unchanged (optional, defaults to false)"`
}

// ReloadSearchIndexOutput defines output for reload_search_index tool
type ReloadSearchIndexOutput struct {
	Updated        bool   `json:"updated"`
	Source         string `json:"source"`
	Keys           int    `json:"keys"`
	Matches        int    `json:"matches"`
	SymbolsIndexed int    `json:"symbols_indexed"`
	LoadedAt       string `json:"loaded_at"`
	Message        string `json:"message"`
}

// ReloadSearchIndex re-reads the search directory and rebuilds the symbol index
func (s *Service) ReloadSearchIndex(ctx context.Context, req *mcp.CallToolRequest, input ReloadSearchIndexInput) (*mcp.CallToolResult, ReloadSearchIndexOutput, error) {
	report, err := s.Reload(ctx, input.Force)
	if err != nil {
		return nil, ReloadSearchIndexOutput{}, fmt.Errorf("reload failed: %w", err)
	}

	return nil, ReloadSearchIndexOutput{
		Updated:        report.Updated,
		Source:         report.Source,
		Keys:           report.Keys,
		Matches:        report.Matches,
		SymbolsIndexed: report.SymbolsIndexed,
		LoadedAt:       report.LoadedAt.Format(time.RFC3339),
		Message:        report.Message,
	}, nil
}

// RegisterTools registers the symbol search tools
func (s *Service) RegisterTools(server *mcp.Server) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "lookup_symbol",
			Description: "Look up documented C++ symbols (classes, constructors, methods) by name prefix, case-insensitive, exactly like the documentation's search box. Returns every documentation location for each matching symbol.",
		},
		s.LookupSymbol,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "search_symbols",
			Description: "Full-text search over documented symbols: names, scopes, signatures and parameter names. Use when the exact symbol name is unknown.",
		},
		s.SearchSymbols,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_sections",
			Description: "List the index categories (all, classes, functions...) of the served documentation and the size of the loaded search table.",
		},
		s.ListSections,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "reload_search_index",
			Description: "Reload the documentation search files after a documentation rebuild and re-index the symbols (automatic when file watching is enabled)",
		},
		s.ReloadSearchIndex,
	)
}
