package interceptors

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docker/mcp-ui-servers/pkg/log"
)

func TestCallbacks(t *testing.T) {
	assert.Empty(t, Callbacks(false))
	assert.Len(t, Callbacks(true), 1)
}

func connect(t *testing.T, server *mcp.Server) *mcp.ClientSession {
	t.Helper()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ss, err := server.Connect(t.Context(), serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(t.Context(), clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestLogCallsMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log.SetLogWriter(&buf)
	defer log.SetLogWriter(os.Stderr)

	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "1.0.0"}, nil)
	server.AddReceivingMiddleware(LogCallsMiddleware())
	schema := &jsonschema.Schema{Type: "object"}
	server.AddTool(&mcp.Tool{Name: "echo", InputSchema: schema}, func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: "ok"}}}, nil
	})
	server.AddTool(&mcp.Tool{Name: "broken", InputSchema: schema}, func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{IsError: true, Content: []mcp.Content{&mcp.TextContent{Text: "nope"}}}, nil
	})
	server.AddTool(&mcp.Tool{Name: "failing", InputSchema: schema}, func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, errors.New("boom")
	})

	cs := connect(t, server)

	_, err := cs.ListTools(t.Context(), nil)
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	_, err = cs.CallTool(t.Context(), &mcp.CallToolParams{Name: "echo", Arguments: map[string]any{"prompt": "hi"}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `  - Calling tool echo with arguments: {"prompt":"hi"}`)
	assert.Contains(t, buf.String(), "  > Tool echo returned in")

	_, err = cs.CallTool(t.Context(), &mcp.CallToolParams{Name: "broken"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "  ! Tool broken returned an error result in")

	_, _ = cs.CallTool(t.Context(), &mcp.CallToolParams{Name: "failing"})
	assert.Contains(t, buf.String(), "  ! Tool failing")
}

func TestArgumentsToString(t *testing.T) {
	assert.Equal(t, "{}", argumentsToString(nil))
	assert.Equal(t, `{"a":1}`, argumentsToString(map[string]int{"a": 1}))

	long := argumentsToString(map[string]string{"prompt": string(bytes.Repeat([]byte("x"), 300))})
	assert.Len(t, long, 203)
	assert.True(t, bytes.HasSuffix([]byte(long), []byte("...")))
}
