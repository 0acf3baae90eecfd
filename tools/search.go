package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/airsim/doxysearch/internal/symbols"
)

// SearchSymbolsInput defines input for search_symbols tool
type SearchSymbolsInput struct {
	Query      string `json:"query" jsonschema:"Full-text query over symbol names, scopes, signatures and parameters"`
	Kind       string `json:"kind,omitempty" jsonschema:"Restrict results to 'page' (classes, files) or 'member' (constructors, methods) (optional)"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of results (optional, defaults to 10)"`
}

// SearchSymbolsOutput defines output for search_symbols tool
type SearchSymbolsOutput struct {
	Results   []symbols.Hit `json:"results"`
	Query     string        `json:"query"`
	TotalHits int           `json:"total_hits"`
}

// SearchSymbols runs a full-text search over the documented symbols
func (s *Service) SearchSymbols(ctx context.Context, req *mcp.CallToolRequest, input SearchSymbolsInput) (*mcp.CallToolResult, SearchSymbolsOutput, error) {
	switch input.Kind {
	case "", symbols.KindPage, symbols.KindMember:
	default:
		return nil, SearchSymbolsOutput{}, fmt.Errorf("invalid kind %q: want %q or %q", input.Kind, symbols.KindPage, symbols.KindMember)
	}

	res, err := s.Search(ctx, symbols.Query{
		Text:  input.Query,
		Kind:  input.Kind,
		Limit: input.MaxResults,
	})
	if err != nil {
		return nil, SearchSymbolsOutput{}, fmt.Errorf("search failed: %w", err)
	}

	return nil, SearchSymbolsOutput{
		Results:   res.Hits,
		Query:     input.Query,
		TotalHits: int(res.Total),
	}, nil
}
