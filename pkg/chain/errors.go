package chain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoHTMLOutput is returned when a chain finishes without a generator result.
var ErrNoHTMLOutput = errors.New("model chain completed without HTML output")

// StageTimeoutError reports a stage call that ran past its timeout.
type StageTimeoutError struct {
	StageID  string
	Timeout  time.Duration
	Endpoint string
}

func (e *StageTimeoutError) Error() string {
	return fmt.Sprintf("stage %s timed out after %dms calling %s", e.StageID, e.Timeout.Milliseconds(), e.Endpoint)
}

// StageStatusError reports a non-2xx provider response.
type StageStatusError struct {
	StageID    string
	StatusCode int
	Body       string
}

func (e *StageStatusError) Error() string {
	return fmt.Sprintf("stage %s failed with status %d: %s", e.StageID, e.StatusCode, e.Body)
}

// EmptyResponseError reports a successful response that carried no text.
type EmptyResponseError struct {
	StageID string
	Raw     string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("stage %s returned an empty response: %s", e.StageID, e.Raw)
}

// StageRequestError wraps network and decoding failures of a stage call.
type StageRequestError struct {
	StageID  string
	Endpoint string
	Err      error
}

func (e *StageRequestError) Error() string {
	return fmt.Sprintf("stage %s request to %s failed: %v", e.StageID, e.Endpoint, e.Err)
}

func (e *StageRequestError) Unwrap() error { return e.Err }

// MissingCredentialsError rejects a chain before any stage runs.
type MissingCredentialsError struct {
	Chain   string
	Missing []MissingCredential
}

func (e *MissingCredentialsError) Error() string {
	vars := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		vars = append(vars, fmt.Sprintf("%s (%s, %s)", m.Label, m.Provider, m.EnvVar))
	}
	return fmt.Sprintf("chain %s is missing credentials for: %s", e.Chain, strings.Join(vars, "; "))
}
