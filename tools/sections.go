package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/airsim/doxysearch/internal/searchdata"
)

// ListSectionsInput defines input for list_sections tool
type ListSectionsInput struct{}

// ListSectionsOutput defines output for list_sections tool
type ListSectionsOutput struct {
	Sections []searchdata.Section `json:"sections"`
	Served   string               `json:"served"`
	Source   string               `json:"source"`
	Keys     int                  `json:"keys"`
	Matches  int                  `json:"matches"`
}

// ListSections reports the index categories of the served search directory
func (s *Service) ListSections(ctx context.Context, req *mcp.CallToolRequest, input ListSectionsInput) (*mcp.CallToolResult, ListSectionsOutput, error) {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return nil, ListSectionsOutput{}, fmt.Errorf("list sections failed: %w", err)
	}

	return nil, ListSectionsOutput{
		Sections: s.Sections(),
		Served:   s.cfg.Category,
		Source:   st.source,
		Keys:     st.table.Len(),
		Matches:  st.table.MatchCount(),
	}, nil
}
