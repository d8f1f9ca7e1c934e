package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docker/mcp-ui-servers/pkg/chain"
	"github.com/docker/mcp-ui-servers/pkg/log"
)

func TestRegisterRedactions_ReplacesPreviousSet(t *testing.T) {
	buf := captureLog(t)
	t.Cleanup(log.ResetRedactions)

	g := newGateway(Config{}, env(map[string]string{"OPENAI_API_KEY": "sk-openai-123456"}))
	g.credentials.SetFallbacks(map[chain.Provider]string{chain.ProviderDeepSeek: "sk-old-fallback-1"})
	g.registerRedactions()

	log.Log("keys", "sk-openai-123456", "sk-old-fallback-1")
	assert.Equal(t, "keys [REDACTED] [REDACTED]\n", buf.String())

	// A chains file reload swaps the fallback key.
	g.credentials.SetFallbacks(map[chain.Provider]string{chain.ProviderDeepSeek: "sk-new-fallback-2"})
	g.registerRedactions()

	buf.Reset()
	log.Log("keys", "sk-openai-123456", "sk-old-fallback-1", "sk-new-fallback-2")
	assert.Equal(t, "keys [REDACTED] sk-old-fallback-1 [REDACTED]\n", buf.String())
}

func TestRegisterRedactions_KeepsAuthToken(t *testing.T) {
	buf := captureLog(t)
	t.Cleanup(log.ResetRedactions)

	g := newGateway(Config{}, env(nil))
	g.authToken = "generated-token-abcdef"
	g.registerRedactions()
	g.registerRedactions()

	log.Log("token", "generated-token-abcdef")
	assert.Equal(t, "token [REDACTED]\n", buf.String())
}
