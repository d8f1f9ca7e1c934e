package chain

import (
	"os"
	"strings"
	"sync"
)

// ProviderKeyEnv is the provider-wide key variable consulted after a stage's
// own variable.
var ProviderKeyEnv = map[Provider]string{
	ProviderOpenAI:   "OPENAI_API_KEY",
	ProviderDeepSeek: "DEEPSEEK_API_KEY",
	ProviderQwen:     "DASHSCOPE_API_KEY",
}

// KeyResolver is one source of API keys. Resolvers are tried in order and the
// first non-empty key wins.
type KeyResolver struct {
	Name    string
	Resolve func(stage AgentStage) string
}

// Credentials resolves API keys for stages.
type Credentials struct {
	// Getenv reads environment variables. Defaults to os.Getenv.
	Getenv func(string) string

	mu        sync.RWMutex
	fallbacks map[Provider]string
}

// NewCredentials returns credentials reading from getenv, or os.Getenv when nil.
func NewCredentials(getenv func(string) string) *Credentials {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Credentials{Getenv: getenv}
}

// SetFallbacks replaces the hardcoded per-provider fallback keys.
func (c *Credentials) SetFallbacks(keys map[Provider]string) {
	copied := make(map[Provider]string, len(keys))
	for provider, key := range keys {
		copied[provider] = key
	}
	c.mu.Lock()
	c.fallbacks = copied
	c.mu.Unlock()
}

// Fallbacks returns a copy of the configured fallback keys.
func (c *Credentials) Fallbacks() map[Provider]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	copied := make(map[Provider]string, len(c.fallbacks))
	for provider, key := range c.fallbacks {
		copied[provider] = key
	}
	return copied
}

// Resolvers returns the key sources in precedence order: the stage's own
// variable, the provider variable, then the configured fallback key.
func (c *Credentials) Resolvers() []KeyResolver {
	return []KeyResolver{
		{
			Name: "stage-env",
			Resolve: func(stage AgentStage) string {
				return c.env(stage.APIKeyEnv)
			},
		},
		{
			Name: "provider-env",
			Resolve: func(stage AgentStage) string {
				return c.env(ProviderKeyEnv[stage.Provider])
			},
		},
		{
			Name: "fallback",
			Resolve: func(stage AgentStage) string {
				c.mu.RLock()
				defer c.mu.RUnlock()
				return strings.TrimSpace(c.fallbacks[stage.Provider])
			},
		},
	}
}

// Resolve returns the key for stage and the name of the resolver that
// produced it. Stages without APIKeyEnv are keyless and resolve to "".
func (c *Credentials) Resolve(stage AgentStage) (key, source string, ok bool) {
	if stage.APIKeyEnv == "" {
		return "", "", true
	}
	for _, resolver := range c.Resolvers() {
		if key := resolver.Resolve(stage); key != "" {
			return key, resolver.Name, true
		}
	}
	return "", "", false
}

func (c *Credentials) env(name string) string {
	if name == "" {
		return ""
	}
	getenv := c.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return strings.TrimSpace(getenv(name))
}

// MissingCredential describes a stage whose key could not be resolved.
type MissingCredential struct {
	StageID  string   `json:"stageId"`
	Label    string   `json:"label"`
	Provider Provider `json:"provider"`
	EnvVar   string   `json:"envVar"`
}

// Precheck lists every stage of chain that requires a key none of the
// resolvers can supply. It makes no network calls.
func (c *Credentials) Precheck(chain ModelChain) []MissingCredential {
	var missing []MissingCredential
	for _, stage := range chain.Stages {
		if _, _, ok := c.Resolve(stage); ok {
			continue
		}
		missing = append(missing, MissingCredential{
			StageID:  stage.ID,
			Label:    stage.Label,
			Provider: stage.Provider,
			EnvVar:   stage.APIKeyEnv,
		})
	}
	return missing
}
