package terminal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetWidthFrom(t *testing.T) {
	assert.Positive(t, GetWidthFrom(&bytes.Buffer{}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "design-...", Truncate("design-review-generate", 10))
	assert.Equal(t, "de", Truncate("design", 2))
	assert.Equal(t, "unbounded", Truncate("unbounded", 0))
	assert.Equal(t, "héllo...", Truncate("héllo wörld", 8))
}
