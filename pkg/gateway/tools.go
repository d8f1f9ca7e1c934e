package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/docker/mcp-ui-servers/pkg/telemetry"
)

type ToolRegistration struct {
	Variant string
	Tool    *mcp.Tool
	Handler mcp.ToolHandler
}

// parseArguments decodes the raw tool arguments into params. Missing
// arguments leave params untouched.
func parseArguments(req *mcp.CallToolRequest, params any) error {
	if req.Params.Arguments == nil {
		return nil
	}
	paramsBytes, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if len(paramsBytes) == 0 || string(paramsBytes) == "null" {
		return nil
	}
	if err := json.Unmarshal(paramsBytes, params); err != nil {
		return fmt.Errorf("failed to parse arguments: %w", err)
	}
	return nil
}

func withToolTelemetry(variant, toolName string, handler mcp.ToolHandler) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startTime := time.Now()

		spanAttrs := []attribute.KeyValue{
			attribute.String("mcpui.variant", variant),
		}
		if req.Session != nil {
			if params := req.Session.InitializeParams(); params != nil && params.ClientInfo != nil {
				spanAttrs = append(spanAttrs, attribute.String("mcp.client.name", params.ClientInfo.Name))
			}
		}

		ctx, span := telemetry.StartToolCallSpan(ctx, toolName, spanAttrs...)
		defer span.End()

		result, err := handler(ctx, req)
		telemetry.RecordToolCall(ctx, toolName, variant, time.Since(startTime))

		if err != nil {
			telemetry.RecordToolError(ctx, span, toolName, err)
			return nil, err
		}
		if result != nil && result.IsError {
			telemetry.RecordToolError(ctx, span, toolName, nil)
			return result, nil
		}

		span.SetStatus(codes.Ok, "")
		return result, nil
	}
}
