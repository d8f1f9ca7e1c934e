// Package uiresource builds MCP-UI resources: embedded resources with a ui://
// URI whose MIME type tells the client how to render them.
package uiresource

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dop251/goja"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	MIMETypeHTML    = "text/html"
	MIMETypeURIList = "text/uri-list"

	remoteDOMMIMEType = "application/vnd.mcp-ui.remote-dom+javascript; framework="

	scheme = "ui://"
)

// Framework is the component library a remote-DOM script renders with.
type Framework string

const (
	FrameworkReact         Framework = "react"
	FrameworkWebComponents Framework = "webcomponents"
)

var ErrInvalidURI = errors.New("ui resource URI must start with ui://")

// UniqueURI returns ui://<name>/<uuid>.
func UniqueURI(name string) string {
	return scheme + name + "/" + uuid.NewString()
}

// RawHTML returns a resource the client renders as an HTML document.
func RawHTML(uri, html string) (*mcp.EmbeddedResource, error) {
	return newResource(uri, MIMETypeHTML, html)
}

// ExternalURL returns a resource the client loads in an iframe.
func ExternalURL(uri, iframeURL string) (*mcp.EmbeddedResource, error) {
	u, err := url.Parse(iframeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid iframe URL %q: %w", iframeURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid iframe URL %q: scheme must be http or https", iframeURL)
	}
	return newResource(uri, MIMETypeURIList, u.String())
}

// RemoteDOM returns a resource whose script the client runs against its own
// component library. The script must compile as JavaScript.
func RemoteDOM(uri, script string, framework Framework) (*mcp.EmbeddedResource, error) {
	switch framework {
	case FrameworkReact, FrameworkWebComponents:
	default:
		return nil, fmt.Errorf("unsupported remote DOM framework %q", framework)
	}

	// Wrap in a function body so top-level returns are accepted.
	if _, err := goja.Compile(uri, "(() => {\n"+script+"\n})()", false); err != nil {
		return nil, fmt.Errorf("remote DOM script for %s does not compile: %w", uri, err)
	}

	return newResource(uri, remoteDOMMIMEType+string(framework), script)
}

func newResource(uri, mimeType, text string) (*mcp.EmbeddedResource, error) {
	if !strings.HasPrefix(uri, scheme) || len(uri) == len(scheme) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}
	return &mcp.EmbeddedResource{
		Resource: &mcp.ResourceContents{
			URI:      uri,
			MIMEType: mimeType,
			Text:     text,
		},
	}, nil
}

// Result wraps resources in a tool result.
func Result(resources ...*mcp.EmbeddedResource) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(resources))
	for _, resource := range resources {
		content = append(content, resource)
	}
	return &mcp.CallToolResult{Content: content}
}

// TextResult returns a plain text tool result.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// ErrorResult returns a text tool result flagged as an error.
func ErrorResult(text string) *mcp.CallToolResult {
	result := TextResult(text)
	result.IsError = true
	return result
}
