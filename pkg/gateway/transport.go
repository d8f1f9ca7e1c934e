package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docker/mcp-ui-servers/pkg/health"
)

const (
	libreChatMessagesPath = "/mcp/ui/messages"
	libreChatStreamPath   = "/mcp/ui/stream"
)

func (g *Gateway) startStdioServer(ctx context.Context) error {
	transport := &mcp.StdioTransport{}
	return g.newServer(nil).Run(ctx, transport)
}

func (g *Gateway) startSseServer(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/health", healthHandler(&g.health))
	mux.Handle("/", redirectHandler("/sse"))
	sseHandler := mcp.NewSSEHandler(g.newServer, nil)
	// Wrap with Origin validation to prevent DNS rebinding
	mux.Handle("/sse", originSecurityHandler(sseHandler))
	g.addPages(mux)

	return g.serveHTTP(ctx, ln, mux)
}

func (g *Gateway) startStreamingServer(ctx context.Context, ln net.Listener) error {
	return g.serveHTTP(ctx, ln, g.streamingMux())
}

func (g *Gateway) streamingMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/health", healthHandler(&g.health))
	mux.Handle("/", redirectHandler("/mcp"))

	sessions := originSecurityHandler(newSessionHandler(g.sessions, g.Variant, g.newServer))
	mux.Handle("/mcp", sessions)
	mux.Handle("POST "+libreChatMessagesPath, sessions)
	mux.Handle("DELETE "+libreChatMessagesPath, sessions)
	mux.Handle("GET "+libreChatStreamPath, sessions)
	g.addPages(mux)

	return mux
}

func (g *Gateway) addPages(mux *http.ServeMux) {
	if !g.serves(VariantTasks) {
		return
	}
	mux.Handle("GET "+taskPagePath, taskPageHandler())
	mux.Handle("GET "+userPagePath, userPageHandler())
}

// httpHandler wraps mux with CORS and, when a token is configured,
// authentication. CORS runs first so preflight requests never need a token.
func (g *Gateway) httpHandler(mux http.Handler) http.Handler {
	var handler http.Handler = mux
	if g.authToken != "" {
		handler = authenticationMiddleware(g.authToken, handler)
	}
	return corsHandler(handler)
}

func (g *Gateway) serveHTTP(ctx context.Context, ln net.Listener, mux http.Handler) error {
	httpServer := &http.Server{
		Handler:           g.httpHandler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func redirectHandler(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	}
}

func healthHandler(state *health.State) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if state.IsHealthy() {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}
}

// corsHandler lets browser-based chat clients read the session id header.
// Only local origins are allowed, matching originSecurityHandler.
func corsHandler(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost", "http://localhost:*",
			"https://localhost", "https://localhost:*",
			"http://127.0.0.1", "http://127.0.0.1:*",
			"https://127.0.0.1", "https://127.0.0.1:*",
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", sessionIDHeader, "Mcp-Protocol-Version", "Last-Event-ID"},
		ExposedHeaders: []string{sessionIDHeader},
		MaxAge:         300,
	})(next)
}

// originSecurityHandler validates Origin header to prevent DNS rebinding attacks.
// This implements the security requirement from the MCP specification:
// https://modelcontextprotocol.io/specification/2024-11-05/basic/transports#security-warning
func originSecurityHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Non-browser clients and same-origin requests send no Origin.
		if origin != "" && !isLocalOrigin(origin) {
			http.Error(w, "Forbidden: Invalid Origin header", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isLocalOrigin(origin string) bool {
	for _, host := range []string{"localhost", "127.0.0.1"} {
		for _, scheme := range []string{"http://", "https://"} {
			base := scheme + host
			if origin == base || strings.HasPrefix(origin, base+":") {
				return true
			}
		}
	}
	return false
}
