package gateway

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docker/mcp-ui-servers/pkg/chain"
	"github.com/docker/mcp-ui-servers/pkg/log"
)

func env(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

// connectTools connects an in-memory client to the server g builds for a
// request to host.
func connectTools(t *testing.T, g *Gateway, host string) *mcp.ClientSession {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "http://"+host+"/mcp", nil)
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ss, err := g.newServer(req).Connect(t.Context(), serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(t.Context(), clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := cs.CallTool(t.Context(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return result
}

func resourceOf(t *testing.T, result *mcp.CallToolResult) *mcp.ResourceContents {
	t.Helper()
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	embedded, ok := result.Content[0].(*mcp.EmbeddedResource)
	require.True(t, ok, "expected an embedded resource, got %T", result.Content[0])
	return embedded.Resource
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetLogWriter(&buf)
	t.Cleanup(func() { log.SetLogWriter(os.Stderr) })
	return &buf
}

func toolNames(t *testing.T, cs *mcp.ClientSession) []string {
	t.Helper()
	tools, err := cs.ListTools(t.Context(), nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	return names
}

func TestVariantTools(t *testing.T) {
	librechat := []string{"showDocsLink", "renderHtmlCard", "showRemoteDomPanel", "generateUiHtml"}
	demo := []string{"showExternalUrl", "showRawHtml", "showRemoteDom", "generateEraserDiagram"}
	tasks := []string{"get_tasks_status", "nudge_team_member", "show_task_status", "show_user_status", "generate_eraser_diagram", "show_remote_dom_react", "show_remote_dom_web_components"}

	tests := []struct {
		variant  string
		expected []string
	}{
		{VariantLibreChat, librechat},
		{VariantDemo, demo},
		{VariantTasks, tasks},
		{VariantAll, append(append(append([]string{}, librechat...), demo...), tasks...)},
	}
	for _, tc := range tests {
		t.Run(tc.variant, func(t *testing.T) {
			g := newGateway(Config{Options: Options{Variant: tc.variant}}, env(nil))
			cs := connectTools(t, g, "localhost:3000")

			assert.ElementsMatch(t, tc.expected, toolNames(t, cs))
		})
	}
}

func TestNormalizeVariant(t *testing.T) {
	variant, err := NormalizeVariant("")
	require.NoError(t, err)
	assert.Equal(t, VariantLibreChat, variant)

	variant, err = NormalizeVariant(" Tasks ")
	require.NoError(t, err)
	assert.Equal(t, VariantTasks, variant)

	_, err = NormalizeVariant("cloudflare")
	require.ErrorContains(t, err, `unknown variant "cloudflare"`)
}

func TestStaticTools(t *testing.T) {
	g := newGateway(Config{Options: Options{Variant: VariantAll}}, env(nil))
	cs := connectTools(t, g, "localhost:3000")

	tests := []struct {
		tool     string
		uri      string
		mimeType string
		contains string
	}{
		{"showDocsLink", "ui://docs-link", "text/uri-list", "https://modelcontextprotocol.io/guides/ui/getting-started"},
		{"renderHtmlCard", "ui://html-card", "text/html", "LibreChat MCP-UI starter"},
		{"showRemoteDomPanel", "ui://remote-dom-panel", "application/vnd.mcp-ui.remote-dom+javascript; framework=react", "dispatchUIEvent"},
		{"showExternalUrl", "ui://greeting", "text/uri-list", "https://example.com"},
		{"showRawHtml", "ui://raw-html-demo", "text/html", "<h1>Hello from Raw HTML</h1>"},
		{"showRemoteDom", "ui://remote-dom-demo", "application/vnd.mcp-ui.remote-dom+javascript; framework=react", "ui-text"},
	}
	for _, tc := range tests {
		t.Run(tc.tool, func(t *testing.T) {
			resource := resourceOf(t, callTool(t, cs, tc.tool, nil))
			assert.Equal(t, tc.uri, resource.URI)
			assert.Equal(t, tc.mimeType, resource.MIMEType)
			assert.Contains(t, resource.Text, tc.contains)
		})
	}
}

func TestGenerateUIHtml(t *testing.T) {
	var prompts []string
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		prompts = append(prompts, string(raw))
		_, _ = io.WriteString(w, "{\"choices\":[{\"message\":{\"content\":\"```html\\n<p onclick=\\\"x()\\\">hi</p><script>evil()</script>\\n```\"}}]}")
	}))
	defer provider.Close()

	g := newGateway(Config{}, env(map[string]string{"OPENAI_API_KEY": "sk-test-123456", "OPENAI_BASE_URL": provider.URL}))
	require.NoError(t, g.catalog.Replace(map[string]chain.ModelChain{
		"default": {Name: "test", Stages: []chain.AgentStage{{
			ID: "coder", Label: "Coder", Provider: chain.ProviderOpenAI, Model: "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY", BaseURLEnv: "OPENAI_BASE_URL", Role: chain.RoleGenerator,
		}}},
	}, "default"))
	cs := connectTools(t, g, "localhost:3000")

	resource := resourceOf(t, callTool(t, cs, "generateUiHtml", map[string]any{
		"prompt":     "A login form",
		"theme":      "dark",
		"components": []string{"button", "input"},
	}))
	assert.Equal(t, "ui://generate-ui-html/result", resource.URI)
	assert.Equal(t, "text/html", resource.MIMEType)
	assert.Equal(t, "<p>hi</p>", resource.Text)

	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], `Theme preference: dark.\nHighlight components: button, input.`)
}

func TestGenerateUIHtml_MissingCredentials(t *testing.T) {
	g := newGateway(Config{}, env(nil))
	cs := connectTools(t, g, "localhost:3000")
	logs := captureLog(t)

	resource := resourceOf(t, callTool(t, cs, "generateUiHtml", map[string]any{"prompt": "A card", "chain": "single"}))
	assert.Equal(t, "ui://generate-ui-html/error", resource.URI)
	assert.Contains(t, resource.Text, "Missing API keys for single-model")
	assert.Contains(t, resource.Text, "<strong>HTML generator</strong> (openai): <code>OPENAI_API_KEY</code>")
	assert.Contains(t, logs.String(), "missing credentials")
}

func TestGenerateUIHtml_StageFailure(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream secret detail", http.StatusBadGateway)
	}))
	defer provider.Close()

	g := newGateway(Config{}, env(map[string]string{"QWEN_BASE_URL": provider.URL}))
	require.NoError(t, g.catalog.Replace(map[string]chain.ModelChain{
		"default": {Name: "local", Stages: []chain.AgentStage{{
			ID: "coder", Label: "Coder", Provider: chain.ProviderQwen, Model: "qwen3-coder:30b",
			BaseURLEnv: "QWEN_BASE_URL", Role: chain.RoleGenerator,
		}}},
	}, "default"))
	cs := connectTools(t, g, "localhost:3000")
	logs := captureLog(t)

	resource := resourceOf(t, callTool(t, cs, "generateUiHtml", map[string]any{"prompt": "A card"}))
	assert.Equal(t, "ui://generate-ui-html/error", resource.URI)
	assert.Contains(t, resource.Text, "We couldn&#39;t generate your UI")
	assert.NotContains(t, resource.Text, "upstream secret detail")
	assert.Contains(t, logs.String(), "upstream secret detail")
}

func TestGenerateUIHtml_EmptyPrompt(t *testing.T) {
	g := newGateway(Config{}, env(nil))
	cs := connectTools(t, g, "localhost:3000")

	result := callTool(t, cs, "generateUiHtml", map[string]any{"prompt": "  "})
	assert.True(t, result.IsError)
	assert.Equal(t, "prompt is required", textOf(t, result))
}

func TestEraserTool_MissingKey(t *testing.T) {
	g := newGateway(Config{Options: Options{Variant: VariantDemo}}, env(nil))
	cs := connectTools(t, g, "localhost:3000")

	result := callTool(t, cs, "generateEraserDiagram", map[string]any{"prompt": "A login flow"})
	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "ERASER_API_KEY is not set")
}

func TestEraserTool(t *testing.T) {
	eraserAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"imageBase64":"AAAA","diagramUrl":"https://app.eraser.io/d/1"}`)
	}))
	defer eraserAPI.Close()

	g := newGateway(Config{Options: Options{Variant: VariantTasks}}, env(map[string]string{
		"ERASER_API_KEY": "eraser-key",
		"ERASER_API_URL": eraserAPI.URL,
	}))
	cs := connectTools(t, g, "localhost:3000")

	resource := resourceOf(t, callTool(t, cs, "generate_eraser_diagram", map[string]any{
		"prompt": "A login flow",
		"format": "webp",
		"title":  "Auth",
	}))
	assert.True(t, strings.HasPrefix(resource.URI, "ui://eraser-diagram/"))
	assert.Equal(t, "text/html", resource.MIMEType)
	assert.Contains(t, resource.Text, `src="data:image/webp;base64,AAAA"`)
	assert.Contains(t, resource.Text, "Auth")
}

func TestEraserTool_UpstreamError(t *testing.T) {
	eraserAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid token"}`)
	}))
	defer eraserAPI.Close()

	g := newGateway(Config{Options: Options{Variant: VariantDemo}}, env(map[string]string{
		"ERASER_API_KEY": "eraser-key",
		"ERASER_API_URL": eraserAPI.URL,
	}))
	cs := connectTools(t, g, "localhost:3000")
	captureLog(t)

	result := callTool(t, cs, "generateEraserDiagram", map[string]any{"prompt": "x"})
	assert.True(t, result.IsError)
	assert.Equal(t, "Eraser API request failed (401): invalid token", textOf(t, result))
}

func TestTasksStatusText(t *testing.T) {
	expected := "Today's Task Status:\n\n" +
		"Alice:\n  To Do: 5\n  In Progress: 4\n  Blocked: 3\n  Remaining: 12\n\n" +
		"Bob:\n  To Do: 11\n  In Progress: 4\n  Blocked: 3\n  Remaining: 18\n\n" +
		"Charlie:\n  To Do: 6\n  In Progress: 5\n  Blocked: 3\n  Remaining: 14\n" +
		"\n\nSummary for the past week:\n" +
		"Total tasks To Do: 75\n" +
		"Total tasks In Progress: 71\n" +
		"Total tasks Blocked: 54\n"

	assert.Equal(t, expected, tasksStatusText())
}

func TestTasksTools(t *testing.T) {
	g := newGateway(Config{Options: Options{Variant: VariantTasks}}, env(nil))
	cs := connectTools(t, g, "localhost:8787")

	t.Run("status", func(t *testing.T) {
		assert.Equal(t, tasksStatusText(), textOf(t, callTool(t, cs, "get_tasks_status", nil)))
	})

	t.Run("nudge", func(t *testing.T) {
		assert.Equal(t, "Nudged Bob!", textOf(t, callTool(t, cs, "nudge_team_member", map[string]any{"name": "Bob"})))
	})

	t.Run("task page", func(t *testing.T) {
		resource := resourceOf(t, callTool(t, cs, "show_task_status", nil))
		assert.True(t, strings.HasPrefix(resource.URI, "ui://task-manager/"))
		assert.Equal(t, "text/uri-list", resource.MIMEType)
		assert.Equal(t, "http://localhost:8787/task", resource.Text)
	})

	t.Run("user page", func(t *testing.T) {
		resource := resourceOf(t, callTool(t, cs, "show_user_status", map[string]any{
			"id":        "alice",
			"name":      "Alice Smith",
			"avatarUrl": "https://example.com/a.png?s=64",
		}))
		assert.True(t, strings.HasPrefix(resource.URI, "ui://user-profile/"))

		u, err := url.Parse(resource.Text)
		require.NoError(t, err)
		assert.Equal(t, "localhost:8787", u.Host)
		assert.Equal(t, "/user", u.Path)
		assert.Equal(t, "Alice Smith", u.Query().Get("name"))
		assert.Equal(t, "https://example.com/a.png?s=64", u.Query().Get("avatarUrl"))
	})

	t.Run("remote dom", func(t *testing.T) {
		react := resourceOf(t, callTool(t, cs, "show_remote_dom_react", nil))
		assert.True(t, strings.HasPrefix(react.URI, "ui://remote-dom-react/"))
		assert.Equal(t, "application/vnd.mcp-ui.remote-dom+javascript; framework=react", react.MIMEType)

		wc := resourceOf(t, callTool(t, cs, "show_remote_dom_web_components", nil))
		assert.True(t, strings.HasPrefix(wc.URI, "ui://remote-dom-wc/"))
		assert.Equal(t, "application/vnd.mcp-ui.remote-dom+javascript; framework=webcomponents", wc.MIMEType)
		assert.Equal(t, react.Text, wc.Text)
	})
}

func TestTasksTools_PublicHost(t *testing.T) {
	g := newGateway(Config{Options: Options{Variant: VariantTasks}}, env(nil))
	cs := connectTools(t, g, "mcp.example.com")

	resource := resourceOf(t, callTool(t, cs, "show_task_status", nil))
	assert.Equal(t, "https://mcp.example.com/task", resource.Text)
}

func TestPageBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:3000", pageBaseURL("localhost:3000"))
	assert.Equal(t, "http://127.0.0.1:3000", pageBaseURL("127.0.0.1:3000"))
	assert.Equal(t, "https://tasks.example.com", pageBaseURL("tasks.example.com"))
}
