// Package mcp exposes dcx rule resolution as a Model Context Protocol server.
package mcp

const (
	name         = "dcx"
	instructions = `MCP Server 'dcx' serves project-specific coding guidelines ("rules") for the files you work on.

REQUIRED workflow:
1. BEFORE creating or editing any file, call 'get_context_for_file' with the path of that file (or folder).
2. STOP and carefully READ the returned context. It contains the conventions you MUST follow for that path.
3. If the result is "No dynamic context found for this path.", no extra guidelines apply.

Use 'list_rules' to see which rule documents are loaded and which patterns they apply to.
`
)
