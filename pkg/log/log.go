package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

const redacted = "[REDACTED]"

var (
	mu        sync.RWMutex
	logWriter io.Writer = os.Stderr
	secrets   []string
)

// SetLogWriter sets the log output destination
func SetLogWriter(w io.Writer) {
	if w == nil {
		return
	}
	mu.Lock()
	logWriter = w
	mu.Unlock()
}

// SetRedactions registers values (API keys, bearer tokens) that must never
// reach the log output. Empty and very short values are ignored.
func SetRedactions(values ...string) {
	mu.Lock()
	defer mu.Unlock()
	for _, v := range values {
		if len(strings.TrimSpace(v)) < 6 {
			continue
		}
		secrets = append(secrets, v)
	}
}

// ResetRedactions forgets every registered secret.
func ResetRedactions() {
	mu.Lock()
	secrets = nil
	mu.Unlock()
}

// Log prints a message to the log output
func Log(a ...any) {
	write(fmt.Sprintln(a...))
}

// Logf prints a formatted message to the log output
func Logf(format string, a ...any) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	write(fmt.Sprintf(format, a...))
}

func write(line string) {
	mu.RLock()
	w := logWriter
	for _, s := range secrets {
		line = strings.ReplaceAll(line, s, redacted)
	}
	mu.RUnlock()
	_, _ = io.WriteString(w, line)
}
