package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogf_AppendsNewline(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriter(&buf)
	defer SetLogWriter(os.Stderr)

	Logf("> Start %s server", "streaming")
	Logf("- done\n")

	assert.Equal(t, "> Start streaming server\n- done\n", buf.String())
}

func TestLog_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriter(&buf)
	defer SetLogWriter(os.Stderr)
	defer ResetRedactions()

	SetRedactions("sk-test-1234567890", "", "abc")
	Log("! stage failed, key was", "sk-test-1234567890")

	assert.Equal(t, "! stage failed, key was [REDACTED]\n", buf.String())
}

func TestSetLogWriter_IgnoresNil(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriter(&buf)
	defer SetLogWriter(os.Stderr)

	SetLogWriter(nil)
	Log("still here")

	assert.Equal(t, "still here\n", buf.String())
}
