package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/macropower/dcx/internal/testutil"
	"github.com/macropower/dcx/pkg/mcp"
	"github.com/macropower/dcx/pkg/resolver"
	"github.com/macropower/dcx/pkg/store"
)

var testRules = map[string]string{
	"a-always.md": "---\ntrigger: always\n---\nAlways included context",
	"b-ts.md":     "---\nglobs: [\"*.ts\", \"*.tsx\"]\n---\nTypeScript Context",
	"c-php.md":    "---\npatterns: *.php\n---\nBad content",
	"d-inert.md":  "---\ndescription: nothing\n---\nInert",
	"e-broken.md": "---\nglobs: [\"*.go\"\n---\nBroken",
}

// connect starts srv on an in-memory transport and returns a connected client session.
func connect(t *testing.T, srv *mcp.Server) *sdk.ClientSession {
	t.Helper()

	ctx := t.Context()
	clientTransport, serverTransport := sdk.NewInMemoryTransports()

	ss, err := srv.Server().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)

	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Close()
	})

	return cs
}

func textContent(t *testing.T, res *sdk.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(*sdk.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])

	return text.Text
}

func structured[T any](t *testing.T, res *sdk.CallToolResult) T {
	t.Helper()

	b, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)

	var out T
	require.NoError(t, json.Unmarshal(b, &out))

	return out
}

func newTestServer(t *testing.T, opts ...mcp.Opt) (*mcp.Server, string) {
	t.Helper()

	dir := testutil.WriteRules(t, t.TempDir(), testRules)

	return mcp.NewServer(store.New(dir), opts...), dir
}

func TestServer_ListTools(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	cs := connect(t, srv)

	res, err := cs.ListTools(t.Context(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}

	assert.ElementsMatch(t, []string{"get_context_for_file", "list_rules"}, names)
}

func TestServer_GetContextForFile(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		path        string
		wantAlways  int
		wantGlob    int
		wantContent []string
	}{
		"typescript file": {
			path:       "src/components/App.tsx",
			wantAlways: 1,
			wantGlob:   1,
			wantContent: []string{
				"Context for: src/components/App.tsx",
				"--- START CONTEXT (ALWAYS) ---\nAlways included context\n--- END CONTEXT ---",
				"--- START CONTEXT FROM MATCHING GLOB PATTERN: *.tsx ---\nTypeScript Context",
			},
		},
		"recovered pattern": {
			path:       "app/User.php",
			wantAlways: 1,
			wantGlob:   1,
			wantContent: []string{
				"--- START CONTEXT FROM MATCHING GLOB PATTERN: *.php ---\nBad content",
			},
		},
		"always only": {
			path:       "README.md",
			wantAlways: 1,
			wantContent: []string{
				"Always included context",
			},
		},
	}

	srv, _ := newTestServer(t)
	cs := connect(t, srv)

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res, err := cs.CallTool(t.Context(), &sdk.CallToolParams{
				Name:      "get_context_for_file",
				Arguments: map[string]any{"filePath": tc.path},
			})
			require.NoError(t, err)
			require.False(t, res.IsError)

			text := textContent(t, res)
			for _, want := range tc.wantContent {
				assert.Contains(t, text, want)
			}

			out := structured[mcp.GetContextResult](t, res)
			assert.Equal(t, tc.path, out.Path)
			assert.Equal(t, text, out.Context)
			assert.Equal(t, tc.wantAlways, out.AlwaysCount)
			assert.Equal(t, tc.wantGlob, out.GlobCount)
		})
	}
}

func TestServer_GetContextForFile_NoContext(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(store.New(filepath.Join(t.TempDir(), "missing")))
	cs := connect(t, srv)

	res, err := cs.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "get_context_for_file",
		Arguments: map[string]any{"filePath": "main.go"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, resolver.NoContext, textContent(t, res))
}

func TestServer_GetContextForFile_EmptyPath(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	cs := connect(t, srv)

	res, err := cs.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "get_context_for_file",
		Arguments: map[string]any{"filePath": ""},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textContent(t, res), "filePath is required")
}

func TestServer_ListRules(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	cs := connect(t, srv)

	res, err := cs.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "list_rules",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := textContent(t, res)
	assert.Contains(t, text, "a-always.md: always\n")
	assert.Contains(t, text, "b-ts.md: glob [*.ts, *.tsx]\n")
	assert.Contains(t, text, "c-php.md: glob [*.php]\n")
	assert.Contains(t, text, "Found 3 rules (1 inert, 1 failed).")

	out := structured[mcp.ListRulesResult](t, res)
	require.Len(t, out.Rules, 3)
	assert.Equal(t, mcp.RuleInfo{Source: "b-ts.md", Trigger: "glob", Patterns: []string{"*.ts", "*.tsx"}}, out.Rules[1])
	assert.Equal(t, []string{"d-inert.md"}, out.Inert)
	require.Len(t, out.Failures, 1)
	assert.Equal(t, "e-broken.md", out.Failures[0].Source)
}

type failingLoader struct{}

func (failingLoader) Load(context.Context) (*store.Snapshot, error) {
	return nil, errors.New("permission denied")
}

func TestServer_ListRules_LoaderError(t *testing.T) {
	t.Parallel()

	cs := connect(t, mcp.NewServer(failingLoader{}))

	res, err := cs.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "list_rules",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textContent(t, res), "permission denied")
}

func TestServer_ToolSpans(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	srv, _ := newTestServer(t, mcp.WithTracerProvider(tp))
	cs := connect(t, srv)

	_, err := cs.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "get_context_for_file",
		Arguments: map[string]any{"filePath": "index.ts"},
	})
	require.NoError(t, err)

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}

	assert.Contains(t, names, "get_context_for_file")
}

func TestServer_Serve_HTTPShutdown(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, mcp.WithAddress("127.0.0.1:0"))

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)

	go func() {
		done <- srv.Serve(ctx)
	}()

	cancel()
	require.NoError(t, <-done)
}
