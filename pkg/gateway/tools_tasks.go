package gateway

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docker/mcp-ui-servers/pkg/uiresource"
)

type nudgeParams struct {
	Name string `json:"name"`
}

type userStatusParams struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// pageBaseURL returns the origin the tasks pages are served from. Local hosts
// are reached over plain http.
func pageBaseURL(host string) string {
	scheme := "https"
	if strings.Contains(host, "localhost") || strings.Contains(host, "127.0.0.1") {
		scheme = "http"
	}
	return scheme + "://" + host
}

func stringProperties(names ...string) map[string]*jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		properties[name] = &jsonschema.Schema{Type: "string"}
	}
	return properties
}

func (g *Gateway) tasksTools(host string) []ToolRegistration {
	baseURL := pageBaseURL(host)

	return []ToolRegistration{
		{
			Variant: VariantTasks,
			Tool: &mcp.Tool{
				Name:        "get_tasks_status",
				Description: "The main way to get a textual representation of the status of all tasks",
				InputSchema: noArguments(),
			},
			Handler: func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return uiresource.TextResult(tasksStatusText()), nil
			},
		},
		{
			Variant: VariantTasks,
			Tool: &mcp.Tool{
				Name:        "nudge_team_member",
				Description: "Nudge a team member about their tasks",
				InputSchema: &jsonschema.Schema{
					Type:       "object",
					Properties: stringProperties("name"),
					Required:   []string{"name"},
				},
			},
			Handler: func(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				var params nudgeParams
				if err := parseArguments(req, &params); err != nil {
					return nil, err
				}
				return uiresource.TextResult("Nudged " + params.Name + "!"), nil
			},
		},
		{
			Variant: VariantTasks,
			Tool: &mcp.Tool{
				Name:        "show_task_status",
				Description: "Displays a UI for the user to see the status of tasks. Use get_tasks_status unless asked to SHOW the status",
				InputSchema: noArguments(),
			},
			Handler: func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				resource, err := uiresource.ExternalURL(uiresource.UniqueURI("task-manager"), baseURL+taskPagePath)
				if err != nil {
					return nil, err
				}
				return uiresource.Result(resource), nil
			},
		},
		{
			Variant: VariantTasks,
			Tool: &mcp.Tool{
				Name:        "show_user_status",
				Description: "Displays a UI for the user to see the status of a user and their tasks",
				InputSchema: &jsonschema.Schema{
					Type:       "object",
					Properties: stringProperties("id", "name", "avatarUrl"),
					Required:   []string{"id", "name", "avatarUrl"},
				},
			},
			Handler: func(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				var params userStatusParams
				if err := parseArguments(req, &params); err != nil {
					return nil, err
				}
				query := url.Values{}
				query.Set("id", params.ID)
				query.Set("name", params.Name)
				query.Set("avatarUrl", params.AvatarURL)

				resource, err := uiresource.ExternalURL(uiresource.UniqueURI("user-profile"), baseURL+userPagePath+"?"+query.Encode())
				if err != nil {
					return nil, err
				}
				return uiresource.Result(resource), nil
			},
		},
		g.eraserTool(VariantTasks, "generate_eraser_diagram"),
		{
			Variant: VariantTasks,
			Tool: &mcp.Tool{
				Name:        "show_remote_dom_react",
				Description: "Shows a react remote-dom component",
				InputSchema: noArguments(),
			},
			Handler: func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				resource, err := uiresource.RemoteDOM(uiresource.UniqueURI("remote-dom-react"), uiresource.LogoToggleScript, uiresource.FrameworkReact)
				if err != nil {
					return nil, err
				}
				return uiresource.Result(resource), nil
			},
		},
		{
			Variant: VariantTasks,
			Tool: &mcp.Tool{
				Name:        "show_remote_dom_web_components",
				Description: "Shows a web components remote-dom component",
				InputSchema: noArguments(),
			},
			Handler: func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				resource, err := uiresource.RemoteDOM(uiresource.UniqueURI("remote-dom-wc"), uiresource.LogoToggleScript, uiresource.FrameworkWebComponents)
				if err != nil {
					return nil, err
				}
				return uiresource.Result(resource), nil
			},
		},
	}
}
