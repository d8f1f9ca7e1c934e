package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docker/mcp-ui-servers/pkg/log"
	"github.com/docker/mcp-ui-servers/pkg/session"
	"github.com/docker/mcp-ui-servers/pkg/telemetry"
)

const sessionIDHeader = "Mcp-Session-Id"

// maxInitializeBody bounds how much of a session-less POST is buffered to
// check whether it is an initialize request.
const maxInitializeBody = 4 << 20

// sessionHandle pairs a session's transport with the protocol server session
// it is connected to.
type sessionHandle struct {
	transport *mcp.StreamableServerTransport
	session   *mcp.ServerSession
}

func (h *sessionHandle) Close() error {
	return h.session.Close()
}

// sessionHandler serves the streamable HTTP transport with one MCP server per
// session, keyed by the Mcp-Session-Id header.
type sessionHandler struct {
	sessions  *session.Registry[*sessionHandle]
	newServer func(*http.Request) *mcp.Server
	variant   string
}

func newSessionHandler(sessions *session.Registry[*sessionHandle], variant string, newServer func(*http.Request) *mcp.Server) *sessionHandler {
	return &sessionHandler{
		sessions:  sessions,
		newServer: newServer,
		variant:   variant,
	}
}

func (h *sessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(sessionIDHeader)

	switch r.Method {
	case http.MethodPost:
		if id != "" {
			h.serveExisting(w, r, id)
			return
		}
		h.serveInitialize(w, r)

	case http.MethodGet:
		h.serveExisting(w, r, id)

	case http.MethodDelete:
		handle, ok := h.lookup(w, id)
		if !ok {
			return
		}
		h.sessions.Remove(id)
		if err := handle.Close(); err != nil {
			log.Logf("! Closing session %s: %s", id, err)
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *sessionHandler) serveExisting(w http.ResponseWriter, r *http.Request, id string) {
	handle, ok := h.lookup(w, id)
	if !ok {
		return
	}
	handle.transport.ServeHTTP(w, r)
}

func (h *sessionHandler) lookup(w http.ResponseWriter, id string) (*sessionHandle, bool) {
	if id == "" {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	handle, ok := h.sessions.Lookup(id)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return handle, true
}

func (h *sessionHandler) serveInitialize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxInitializeBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if !isInitializeRequest(body) {
		writeJSONError(w, http.StatusBadRequest, "Bad Request: No valid session ID provided")
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	server := h.newServer(r)
	id, handle, err := h.sessions.CreateWith(func(id string) (*sessionHandle, error) {
		transport := &mcp.StreamableServerTransport{SessionID: id}
		// The session outlives this request.
		ss, err := server.Connect(context.WithoutCancel(r.Context()), transport, nil)
		if err != nil {
			return nil, err
		}
		return &sessionHandle{transport: transport, session: ss}, nil
	})
	if err != nil {
		log.Log("! Failed to start session:", err)
		http.Error(w, "failed to start session", http.StatusInternalServerError)
		return
	}

	log.Log("- MCP session initialized:", id)
	telemetry.RecordSessionOpened(r.Context(), h.variant)
	go func() {
		_ = handle.session.Wait()
		h.sessions.Remove(id)
		telemetry.RecordSessionClosed(context.Background(), h.variant)
		log.Log("- MCP session closed:", id)
	}()

	handle.transport.ServeHTTP(w, r)
}

// isInitializeRequest reports whether body is an initialize request or a batch
// containing one.
func isInitializeRequest(body []byte) bool {
	type message struct {
		Method string `json:"method"`
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return false
	}
	if body[0] == '[' {
		var batch []message
		if err := json.Unmarshal(body, &batch); err != nil {
			return false
		}
		for _, msg := range batch {
			if msg.Method == "initialize" {
				return true
			}
		}
		return false
	}

	var msg message
	if err := json.Unmarshal(body, &msg); err != nil {
		return false
	}
	return msg.Method == "initialize"
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"message": message},
	})
}
