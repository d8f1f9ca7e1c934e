package interceptors

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docker/mcp-ui-servers/pkg/log"
)

// Callbacks returns the receiving middlewares to install on every server.
func Callbacks(logCalls bool) []mcp.Middleware {
	var middlewares []mcp.Middleware
	if logCalls {
		middlewares = append(middlewares, LogCallsMiddleware())
	}
	return middlewares
}

// LogCallsMiddleware logs every tools/call with its arguments, duration and
// outcome. Other methods pass through untouched.
func LogCallsMiddleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			callReq, ok := req.(*mcp.CallToolRequest)
			if method != "tools/call" || !ok {
				return next(ctx, method, req)
			}

			name := callReq.Params.Name
			log.Logf("  - Calling tool %s with arguments: %s", name, argumentsToString(callReq.Params.Arguments))

			start := time.Now()
			result, err := next(ctx, method, req)
			elapsed := time.Since(start)

			switch {
			case err != nil:
				log.Logf("  ! Tool %s failed after %s: %s", name, elapsed, err)
			case isErrorResult(result):
				log.Logf("  ! Tool %s returned an error result in %s", name, elapsed)
			default:
				log.Logf("  > Tool %s returned in %s", name, elapsed)
			}
			return result, err
		}
	}
}

func isErrorResult(result mcp.Result) bool {
	toolResult, ok := result.(*mcp.CallToolResult)
	return ok && toolResult != nil && toolResult.IsError
}

func argumentsToString(args any) string {
	if args == nil {
		return "{}"
	}
	buf, err := json.Marshal(args)
	if err != nil {
		return "<unprintable>"
	}
	text := string(buf)
	if text == "" || text == "null" {
		return "{}"
	}
	const maxLen = 200
	if len(text) > maxLen {
		return text[:maxLen] + "..."
	}
	return text
}
