package chain

const (
	DefaultChainKey = "default"
	SingleChainKey  = "single"
)

func float(v float64) *float64 { return &v }

// DefaultChains returns the built-in chains, keyed by catalog key.
//
// "default" plans with OpenAI and reviews and codes with self-hosted Qwen
// models that need no key. "single" is one OpenAI generator call.
func DefaultChains() map[string]ModelChain {
	return map[string]ModelChain{
		DefaultChainKey: {
			Name:        "design-review-generate",
			Description: "Plan the layout, review it for accessibility, then generate HTML.",
			Stages: []AgentStage{
				{
					ID:          "planner",
					Label:       "Layout planner",
					Provider:    ProviderOpenAI,
					Model:       "gpt-4o-mini",
					APIKeyEnv:   "OPENAI_API_KEY",
					Role:        RolePlanner,
					MaxTokens:   16000,
					Temperature: float(0.3),
				},
				{
					ID:          "reviewer",
					Label:       "Accessibility reviewer",
					Provider:    ProviderQwen,
					Model:       "qwen3:30b",
					Role:        RoleReviewer,
					MaxTokens:   32000,
					Temperature: float(0.2),
				},
				{
					ID:          "coder",
					Label:       "HTML coder",
					Provider:    ProviderQwen,
					Model:       "qwen3-coder:30b",
					Role:        RoleGenerator,
					MaxTokens:   90000,
					Temperature: float(0.45),
				},
			},
		},
		SingleChainKey: {
			Name:        "single-model",
			Description: "One OpenAI call that writes the HTML directly.",
			Stages: []AgentStage{
				{
					ID:          "generator",
					Label:       "HTML generator",
					Provider:    ProviderOpenAI,
					Model:       "gpt-4o-mini",
					APIKeyEnv:   "OPENAI_API_KEY",
					Role:        RoleGenerator,
					MaxTokens:   600,
					Temperature: float(0.4),
				},
			},
		},
	}
}
