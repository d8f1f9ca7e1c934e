package gateway

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docker/mcp-ui-servers/pkg/uiresource"
)

const (
	docsURL         = "https://modelcontextprotocol.io/guides/ui/getting-started"
	sampleServers   = "https://github.com/modelcontextprotocol/servers"
	externalDemoURL = "https://example.com"
)

func noArguments() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object"}
}

// staticTool returns a tool that always answers with the resource built by
// build.
func staticTool(variant, name, title, description string, build func() (*mcp.EmbeddedResource, error)) ToolRegistration {
	return ToolRegistration{
		Variant: variant,
		Tool: &mcp.Tool{
			Name:        name,
			Title:       title,
			Description: description,
			InputSchema: noArguments(),
		},
		Handler: func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			resource, err := build()
			if err != nil {
				return nil, err
			}
			return uiresource.Result(resource), nil
		},
	}
}

func librechatStaticTools() []ToolRegistration {
	return []ToolRegistration{
		staticTool(VariantLibreChat, "showDocsLink", "Show MCP-UI Docs",
			"Return a UI resource that opens the MCP-UI documentation.",
			func() (*mcp.EmbeddedResource, error) {
				return uiresource.ExternalURL("ui://docs-link", docsURL)
			}),
		staticTool(VariantLibreChat, "renderHtmlCard", "Render HTML card",
			"Display a custom HTML snippet with a CTA.",
			func() (*mcp.EmbeddedResource, error) {
				html, err := uiresource.RenderCard(uiresource.Card{
					Title:     "LibreChat MCP-UI starter",
					Body:      "This card is rendered by the MCP-UI Go server using raw HTML.",
					LinkURL:   sampleServers,
					LinkLabel: "Browse sample servers",
				})
				if err != nil {
					return nil, err
				}
				return uiresource.RawHTML("ui://html-card", html)
			}),
		staticTool(VariantLibreChat, "showRemoteDomPanel", "Show Remote DOM panel",
			"Render a React-friendly Remote DOM widget with quick actions.",
			func() (*mcp.EmbeddedResource, error) {
				return uiresource.RemoteDOM("ui://remote-dom-panel", uiresource.PanelScript, uiresource.FrameworkReact)
			}),
	}
}

func demoStaticTools() []ToolRegistration {
	return []ToolRegistration{
		staticTool(VariantDemo, "showExternalUrl", "Show External URL",
			"Creates a UI resource displaying an external URL (example.com).",
			func() (*mcp.EmbeddedResource, error) {
				return uiresource.ExternalURL("ui://greeting", externalDemoURL)
			}),
		staticTool(VariantDemo, "showRawHtml", "Show Raw HTML",
			"Creates a UI resource displaying raw HTML.",
			func() (*mcp.EmbeddedResource, error) {
				return uiresource.RawHTML("ui://raw-html-demo", "<h1>Hello from Raw HTML</h1>")
			}),
		staticTool(VariantDemo, "showRemoteDom", "Show Remote DOM",
			"Creates a UI resource displaying a remote DOM script.",
			func() (*mcp.EmbeddedResource, error) {
				return uiresource.RemoteDOM("ui://remote-dom-demo", uiresource.HelloScript, uiresource.FrameworkReact)
			}),
	}
}
