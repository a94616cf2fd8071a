package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/dcx/pkg/resolver"
	"github.com/macropower/dcx/pkg/rule"
)

// GetContextParams defines parameters for the get_context_for_file tool.
type GetContextParams struct {
	FilePath string `json:"filePath" jsonschema:"The file or folder path you are about to edit or create"`
}

// GetContextResult contains the resolved context for a path.
type GetContextResult struct {
	Path        string `json:"path"`
	Context     string `json:"context"`
	AlwaysCount int    `json:"alwaysCount"`
	GlobCount   int    `json:"globCount"`
}

func (s *Server) handleGetContext(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	params GetContextParams,
) (*mcp.CallToolResult, GetContextResult, error) {
	if params.FilePath == "" {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "filePath is required"}},
			IsError: true,
		}, GetContextResult{}, nil
	}

	result := GetContextResult{Path: params.FilePath}

	matches := s.resolver.Matches(ctx, params.FilePath)
	for _, m := range matches {
		if m.Rule.Trigger() == rule.TriggerAlways {
			result.AlwaysCount++
		} else {
			result.GlobCount++
		}
	}

	result.Context = resolver.NoContext
	if len(matches) > 0 {
		result.Context = resolver.Render(params.FilePath, matches)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: result.Context}},
	}, result, nil
}
