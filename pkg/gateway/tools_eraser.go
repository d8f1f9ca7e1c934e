package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docker/mcp-ui-servers/pkg/eraser"
	"github.com/docker/mcp-ui-servers/pkg/log"
	"github.com/docker/mcp-ui-servers/pkg/uiresource"
)

type eraserParams struct {
	Prompt      string `json:"prompt"`
	Format      string `json:"format,omitempty"`
	AspectRatio string `json:"aspectRatio,omitempty"`
	Title       string `json:"title,omitempty"`
}

func (g *Gateway) eraserTool(variant, name string) ToolRegistration {
	formats := make([]any, 0, len(eraser.Formats))
	for _, f := range eraser.Formats {
		formats = append(formats, f)
	}

	return ToolRegistration{
		Variant: variant,
		Tool: &mcp.Tool{
			Name:        name,
			Title:       "Generate Eraser Diagram",
			Description: "Creates a diagram image using the Eraser AI Diagram API and displays it as a UI resource.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"prompt": {
						Type:        "string",
						Description: "Detailed description of the diagram to render.",
					},
					"format": {
						Type: "string",
						Enum: formats,
					},
					"aspectRatio": {
						Type:        "string",
						Description: "Optional aspect ratio (e.g. 16:9, 1:1).",
					},
					"title": {
						Type:        "string",
						Description: "Optional title displayed above the rendered diagram.",
					},
				},
				Required: []string{"prompt"},
			},
		},
		Handler: func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return g.renderDiagram(ctx, name, req)
		},
	}
}

func (g *Gateway) renderDiagram(ctx context.Context, toolName string, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params eraserParams
	if err := parseArguments(req, &params); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Prompt) == "" {
		return uiresource.ErrorResult("prompt is required"), nil
	}

	diagram, err := g.eraser.Render(ctx, eraser.Request{
		Prompt:      params.Prompt,
		Format:      params.Format,
		AspectRatio: params.AspectRatio,
	})
	if err != nil {
		if !errors.Is(err, eraser.ErrMissingAPIKey) {
			log.Logf("! %s failed: %s", toolName, err)
		}
		return uiresource.ErrorResult(err.Error()), nil
	}

	html, err := eraser.RenderHTML(diagram, params.Prompt, params.Title)
	if err != nil {
		return nil, err
	}
	resource, err := uiresource.RawHTML(uiresource.UniqueURI("eraser-diagram"), html)
	if err != nil {
		return nil, err
	}
	return uiresource.Result(resource), nil
}
