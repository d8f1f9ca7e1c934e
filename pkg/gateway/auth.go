package gateway

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"strings"
)

const (
	authTokenEnv = "MCP_UI_AUTH_TOKEN"

	tokenLength = 50
	// Characters to use for random token generation (lowercase letters and numbers)
	tokenCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// generateAuthToken generates a random 50-character string using lowercase letters and numbers
func generateAuthToken() (string, error) {
	token := make([]byte, tokenLength)
	charsetLen := big.NewInt(int64(len(tokenCharset)))

	for i := range tokenLength {
		num, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random token: %w", err)
		}
		token[i] = tokenCharset[num.Int64()]
	}

	return string(token), nil
}

// getOrGenerateAuthToken retrieves the auth token from environment variable MCP_UI_AUTH_TOKEN
// or generates a new one if not set or empty
func getOrGenerateAuthToken() (string, bool, error) {
	envToken := strings.TrimSpace(os.Getenv(authTokenEnv))
	if envToken != "" {
		return envToken, false, nil // false indicates token was from environment
	}

	token, err := generateAuthToken()
	if err != nil {
		return "", false, err
	}
	return token, true, nil // true indicates token was generated
}

// authenticationMiddleware creates an HTTP middleware that validates requests using
// Bearer token in the Authorization header.
//
// The /health endpoint and the tasks pages loaded inside client iframes are
// excluded from authentication.
func authenticationMiddleware(authToken string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health", taskPagePath, userPagePath:
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		// Constant-time comparison.
		authenticated := ok && token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(authToken)) == 1

		if !authenticated {
			// Return 401 Unauthorized with WWW-Authenticate header
			w.Header().Set("WWW-Authenticate", `Bearer realm="MCP-UI"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// Authentication successful, proceed to next handler
		next.ServeHTTP(w, r)
	})
}

// formatServerURL formats the server URL without authentication info
func formatServerURL(port int, endpoint string) string {
	return fmt.Sprintf("http://localhost:%d%s", port, endpoint)
}

// formatBearerToken formats the Bearer token for display in the Authorization header
func formatBearerToken(authToken string) string {
	return fmt.Sprintf("Authorization: Bearer %s", authToken)
}
