package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListRulesParams defines parameters for the list_rules tool.
type ListRulesParams struct{}

// RuleInfo describes a loaded rule.
type RuleInfo struct {
	Source   string   `json:"source"`
	Trigger  string   `json:"trigger"`
	Patterns []string `json:"patterns,omitempty"`
}

// FailureInfo describes a document that could not be loaded.
type FailureInfo struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// ListRulesResult lists the contents of the rules directory.
type ListRulesResult struct {
	Message  string        `json:"message"`
	Rules    []RuleInfo    `json:"rules"`
	Inert    []string      `json:"inert"`
	Failures []FailureInfo `json:"failures"`
}

func (s *Server) handleListRules(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListRulesParams,
) (*mcp.CallToolResult, ListRulesResult, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, ListRulesResult{}, fmt.Errorf("load rules: %w", err)
	}

	result := ListRulesResult{
		Rules:    make([]RuleInfo, 0, len(snap.Rules)),
		Inert:    append([]string{}, snap.Inert...),
		Failures: make([]FailureInfo, 0, len(snap.Failures)),
	}

	lines := make([]string, 0, len(snap.Rules)+1)
	for _, r := range snap.Rules {
		result.Rules = append(result.Rules, RuleInfo{
			Source:   r.Source(),
			Trigger:  string(r.Trigger()),
			Patterns: r.Patterns(),
		})
		lines = append(lines, r.String())
	}

	for _, f := range snap.Failures {
		result.Failures = append(result.Failures, FailureInfo{
			Source: f.Source,
			Error:  f.Err.Error(),
		})
	}

	result.Message = fmt.Sprintf("Found %d rules (%d inert, %d failed).",
		len(result.Rules), len(result.Inert), len(result.Failures))
	lines = append(lines, result.Message)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: strings.Join(lines, "\n")}},
	}, result, nil
}
