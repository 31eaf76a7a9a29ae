package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/casadesk/brochure-search/internal/core/ports/driving"
)

// SearchInput is the input schema for the search_brochures tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"free-text query to match against brochure passages"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of passages to return (default 3)"`
}

// SearchOutput is the output schema for the search_brochures tool.
type SearchOutput struct {
	Query   string               `json:"query"`
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieved passage.
type SearchResultOutput struct {
	Source  string  `json:"source"`
	ChunkID int     `json:"chunk_id"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_brochures",
		Description: "Search indexed property brochures for passages relevant to a query",
	}, s.handleSearch)
}

// handleSearch handles the search_brochures tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	topK := input.TopK
	if topK <= 0 {
		topK = driving.DefaultTopK
	}

	results, err := s.ports.Retrieval.Query(ctx, input.Query, topK)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Query:   input.Query,
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i, r := range results {
		output.Results[i] = SearchResultOutput{
			Source:  r.Source,
			ChunkID: r.ChunkID,
			Text:    r.Text,
			Score:   r.Score,
		}
	}

	return nil, output, nil
}
