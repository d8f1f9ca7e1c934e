// Package chain runs multi-stage LLM model chains that turn a UI request into
// a sanitized HTML fragment.
//
// A chain is an ordered list of stages. A planner stage drafts a layout plan,
// a reviewer stage critiques it and a generator stage writes the final markup.
// Stages run strictly one after another and each stage sees what the earlier
// ones produced.
package chain

import "time"

// Provider identifies an OpenAI-compatible chat completion API.
type Provider string

const (
	ProviderOpenAI   Provider = "openai"
	ProviderDeepSeek Provider = "deepseek"
	ProviderQwen     Provider = "qwen"
)

// Role decides what a stage's output is used for.
type Role string

const (
	RolePlanner   Role = "planner"
	RoleReviewer  Role = "reviewer"
	RoleGenerator Role = "generator"
)

// AgentStage is one model call in a chain.
type AgentStage struct {
	ID       string   `yaml:"id" json:"id" validate:"required"`
	Label    string   `yaml:"label" json:"label" validate:"required"`
	Provider Provider `yaml:"provider" json:"provider" validate:"required,oneof=openai deepseek qwen"`
	Model    string   `yaml:"model" json:"model" validate:"required"`
	// APIKeyEnv names the environment variable holding the stage's key.
	// Empty means the stage calls its endpoint without credentials.
	APIKeyEnv string `yaml:"apiKeyEnv,omitempty" json:"apiKeyEnv,omitempty"`
	// BaseURLEnv names an environment variable overriding the provider base URL.
	BaseURLEnv       string   `yaml:"baseUrlEnv,omitempty" json:"baseUrlEnv,omitempty"`
	Role             Role     `yaml:"role" json:"role" validate:"required,oneof=planner reviewer generator"`
	MaxTokens        int      `yaml:"maxTokens,omitempty" json:"maxTokens,omitempty" validate:"gte=0"`
	Temperature      *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	RequestTimeoutMs int      `yaml:"requestTimeoutMs,omitempty" json:"requestTimeoutMs,omitempty" validate:"gte=0"`
}

// RequestTimeout returns the stage's own timeout, or zero when unset.
func (s AgentStage) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutMs) * time.Millisecond
}

// ModelChain is a named, ordered list of stages.
type ModelChain struct {
	Name        string       `yaml:"name" json:"name" validate:"required"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Stages      []AgentStage `yaml:"stages" json:"stages" validate:"required,min=1,dive"`
}

// Request is one UI generation request.
type Request struct {
	Prompt     string
	Theme      string
	Components []string
	// Chain selects a chain by catalog key. Empty selects the default.
	Chain string
}

// StageRun describes a completed stage.
type StageRun struct {
	StageID  string
	Role     Role
	Provider Provider
	Model    string
	Duration time.Duration
}

// Result is the outcome of a successful chain run.
type Result struct {
	Chain  string
	Plan   string
	Review string
	HTML   string
	Stages []StageRun
}
