package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docker/mcp-ui-servers/pkg/chain"
	"github.com/docker/mcp-ui-servers/pkg/log"
	"github.com/docker/mcp-ui-servers/pkg/uiresource"
)

const (
	generateResultURI = "ui://generate-ui-html/result"
	generateErrorURI  = "ui://generate-ui-html/error"
)

type generateUIParams struct {
	Prompt     string   `json:"prompt"`
	Theme      string   `json:"theme,omitempty"`
	Components []string `json:"components,omitempty"`
	Chain      string   `json:"chain,omitempty"`
}

func (g *Gateway) generateUITool() ToolRegistration {
	chains := g.catalog.Keys()

	return ToolRegistration{
		Variant: VariantLibreChat,
		Tool: &mcp.Tool{
			Name:        "generateUiHtml",
			Title:       "Generate UI HTML",
			Description: "Run a chain of models (planner, reviewer, coder) to return sanitized HTML UI snippets for LibreChat.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"prompt": {
						Type:        "string",
						Description: "Primary design prompt or user instructions for the UI.",
					},
					"theme": {
						Type:        "string",
						Description: "Optional theme or visual style to apply to the HTML output.",
					},
					"components": {
						Type:        "array",
						Items:       &jsonschema.Schema{Type: "string"},
						Description: "Optional list of components to prioritize (buttons, inputs, cards, etc.).",
					},
					"chain": {
						Type:        "string",
						Description: "Optional model chain to run (" + strings.Join(chains, ", ") + "). Unknown names use the default chain.",
					},
				},
				Required: []string{"prompt"},
			},
		},
		Handler: g.generateUIHandler,
	}
}

func (g *Gateway) generateUIHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params generateUIParams
	if err := parseArguments(req, &params); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Prompt) == "" {
		return uiresource.ErrorResult("prompt is required"), nil
	}

	result, err := g.runner.Run(ctx, chain.Request{
		Prompt:     params.Prompt,
		Theme:      params.Theme,
		Components: params.Components,
		Chain:      params.Chain,
	})
	if err != nil {
		return failureCard(err)
	}

	resource, err := uiresource.RawHTML(generateResultURI, result.HTML)
	if err != nil {
		return nil, err
	}
	return uiresource.Result(resource), nil
}

// failureCard turns a chain error into an HTML card. Missing credentials are
// listed; anything else is logged and replaced with a generic message.
func failureCard(err error) (*mcp.CallToolResult, error) {
	var html string
	var renderErr error

	var missingErr *chain.MissingCredentialsError
	if errors.As(err, &missingErr) {
		log.Log("!", missingErr)
		card := uiresource.CredentialsCard{Chain: missingErr.Chain}
		for _, m := range missingErr.Missing {
			card.Missing = append(card.Missing, uiresource.MissingCredential{
				Label:    m.Label,
				Provider: string(m.Provider),
				EnvVar:   m.EnvVar,
			})
		}
		html, renderErr = uiresource.RenderCredentialsCard(card)
	} else {
		log.Log("! generateUiHtml failed:", err)
		html, renderErr = uiresource.RenderErrorCard(uiresource.ErrorCard{
			Title:   "We couldn't generate your UI",
			Message: "The model chain failed before producing any HTML.",
			Hint:    "Check the server logs for details and try again.",
		})
	}
	if renderErr != nil {
		return nil, renderErr
	}

	resource, err := uiresource.RawHTML(generateErrorURI, html)
	if err != nil {
		return nil, err
	}
	return uiresource.Result(resource), nil
}
