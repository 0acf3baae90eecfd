package tools

import (
	"context"
	"fmt"
	"html"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/airsim/doxysearch/internal/searchdata"
	"github.com/airsim/doxysearch/internal/symbols"
)

// LookupSymbolInput defines input for lookup_symbol tool
type LookupSymbolInput struct {
	Prefix     string `json:"prefix" jsonschema:"Symbol name or name prefix, case-insensitive (empty lists every symbol)"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of symbols to return (optional, defaults to 10)"`
}

// SymbolMatch is one documentation location of a symbol
type SymbolMatch struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Kind      string `json:"kind"`
	Scope     string `json:"scope,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// SymbolEntry is one search key with its documentation locations
type SymbolEntry struct {
	Key     string        `json:"key"`
	Name    string        `json:"name"`
	Matches []SymbolMatch `json:"matches"`
}

// LookupSymbolOutput defines output for lookup_symbol tool
type LookupSymbolOutput struct {
	Prefix       string        `json:"prefix"`
	Symbols      []SymbolEntry `json:"symbols"`
	TotalSymbols int           `json:"total_symbols"`
	Truncated    bool          `json:"truncated"`
}

// LookupSymbol finds every documented symbol whose name starts with the prefix
func (s *Service) LookupSymbol(ctx context.Context, req *mcp.CallToolRequest, input LookupSymbolInput) (*mcp.CallToolResult, LookupSymbolOutput, error) {
	entries, err := s.Lookup(ctx, input.Prefix)
	if err != nil {
		return nil, LookupSymbolOutput{}, fmt.Errorf("lookup failed: %w", err)
	}

	limit := s.clampLimit(input.MaxResults)
	output := LookupSymbolOutput{
		Prefix:       input.Prefix,
		TotalSymbols: len(entries),
		Truncated:    len(entries) > limit,
	}
	if output.Truncated {
		entries = entries[:limit]
	}

	output.Symbols = make([]SymbolEntry, 0, len(entries))
	for _, e := range entries {
		output.Symbols = append(output.Symbols, newSymbolEntry(e))
	}
	return nil, output, nil
}

func newSymbolEntry(e searchdata.IndexEntry) SymbolEntry {
	entry := SymbolEntry{
		Key:     e.Key,
		Name:    e.Name(),
		Matches: make([]SymbolMatch, 0, len(e.Matches)),
	}
	for _, m := range e.Matches {
		match := SymbolMatch{
			Name:  m.DisplayName,
			URL:   m.URL,
			Kind:      symbols.KindPage,
			Scope:     m.Scope,
			Signature: html.UnescapeString(m.Signature),
		}
		if m.IsMember() {
			match.Kind = symbols.KindMember
		}
		entry.Matches = append(entry.Matches, match)
	}
	return entry
}
