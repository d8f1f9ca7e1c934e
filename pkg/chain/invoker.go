package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultMaxTokens   = 1200
	DefaultTemperature = 0.4
	DefaultTimeout     = 120 * time.Second

	// TimeoutEnv overrides DefaultTimeout, in milliseconds.
	TimeoutEnv = "MODEL_CHAIN_TIMEOUT_MS"

	maxErrorBody = 2048
)

// DefaultBaseURLs are used when a stage has no base URL override.
var DefaultBaseURLs = map[Provider]string{
	ProviderOpenAI:   "https://api.openai.com/v1",
	ProviderDeepSeek: "https://api.deepseek.com/v1",
	ProviderQwen:     "https://dashscope.aliyuncs.com/compatible-mode/v1",
}

// Invoker sends one stage's messages to its model and returns the text reply.
type Invoker interface {
	Invoke(ctx context.Context, stage AgentStage, messages []openai.ChatCompletionMessage) (string, error)
}

// HTTPInvoker calls OpenAI-compatible /chat/completions endpoints.
type HTTPInvoker struct {
	Client      *http.Client
	Credentials *Credentials
	// Getenv reads base URL overrides and the timeout. Defaults to os.Getenv.
	Getenv func(string) string
}

// NewHTTPInvoker returns an invoker using http.DefaultClient.
func NewHTTPInvoker(credentials *Credentials, getenv func(string) string) *HTTPInvoker {
	return &HTTPInvoker{
		Client:      http.DefaultClient,
		Credentials: credentials,
		Getenv:      getenv,
	}
}

type completionRequest struct {
	Model       string                         `json:"model"`
	Messages    []openai.ChatCompletionMessage `json:"messages"`
	MaxTokens   int                            `json:"max_tokens"`
	Temperature float64                        `json:"temperature"`
}

func (i *HTTPInvoker) Invoke(ctx context.Context, stage AgentStage, messages []openai.ChatCompletionMessage) (string, error) {
	key, _, ok := i.credentials().Resolve(stage)
	if !ok {
		return "", &MissingCredentialsError{Missing: []MissingCredential{{
			StageID:  stage.ID,
			Label:    stage.Label,
			Provider: stage.Provider,
			EnvVar:   stage.APIKeyEnv,
		}}}
	}

	endpoint, err := i.Endpoint(stage)
	if err != nil {
		return "", err
	}

	body := completionRequest{
		Model:       stage.Model,
		Messages:    messages,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
	if stage.MaxTokens > 0 {
		body.MaxTokens = stage.MaxTokens
	}
	if stage.Temperature != nil {
		body.Temperature = *stage.Temperature
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encoding request for stage %s: %w", stage.ID, err)
	}

	timeout := i.Timeout(stage)
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &StageRequestError{StageID: stage.ID, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := i.client().Do(req)
	if err != nil {
		return "", i.callError(ctx, callCtx, stage, endpoint, timeout, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", i.callError(ctx, callCtx, stage, endpoint, timeout, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StageStatusError{StageID: stage.ID, StatusCode: resp.StatusCode, Body: truncate(string(raw), maxErrorBody)}
	}

	var decoded completionResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", &StageRequestError{StageID: stage.ID, Endpoint: endpoint, Err: fmt.Errorf("decoding response: %w", err)}
	}

	var text string
	if len(decoded.Choices) > 0 {
		text = decoded.Choices[0].Message.Content.String()
	}
	if text == "" {
		return "", &EmptyResponseError{StageID: stage.ID, Raw: truncate(string(raw), maxErrorBody)}
	}

	return StripFences(text), nil
}

// Endpoint returns the chat completions URL for stage.
func (i *HTTPInvoker) Endpoint(stage AgentStage) (string, error) {
	base := ""
	if stage.BaseURLEnv != "" {
		base = strings.TrimSpace(i.getenv(stage.BaseURLEnv))
	}
	if base == "" {
		base = DefaultBaseURLs[stage.Provider]
	}
	if base == "" {
		return "", fmt.Errorf("stage %s: no base URL for provider %q", stage.ID, stage.Provider)
	}
	return strings.TrimRight(base, "/") + "/chat/completions", nil
}

// Timeout returns the stage override, else MODEL_CHAIN_TIMEOUT_MS, else DefaultTimeout.
func (i *HTTPInvoker) Timeout(stage AgentStage) time.Duration {
	if timeout := stage.RequestTimeout(); timeout > 0 {
		return timeout
	}
	if ms, err := strconv.Atoi(strings.TrimSpace(i.getenv(TimeoutEnv))); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return DefaultTimeout
}

// callError tells a stage timeout apart from cancellation of the whole run.
func (i *HTTPInvoker) callError(parent, callCtx context.Context, stage AgentStage, endpoint string, timeout time.Duration, err error) error {
	if parent.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return &StageTimeoutError{StageID: stage.ID, Timeout: timeout, Endpoint: endpoint}
	}
	return &StageRequestError{StageID: stage.ID, Endpoint: endpoint, Err: err}
}

func (i *HTTPInvoker) client() *http.Client {
	if i.Client == nil {
		return http.DefaultClient
	}
	return i.Client
}

func (i *HTTPInvoker) credentials() *Credentials {
	if i.Credentials == nil {
		return NewCredentials(i.Getenv)
	}
	return i.Credentials
}

func (i *HTTPInvoker) getenv(key string) string {
	if i.Getenv == nil {
		return os.Getenv(key)
	}
	return i.Getenv(key)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
