package hints

import (
	"strings"

	"github.com/fatih/color"
)

// DisableEnv turns the CLI tips off when set to "false" or "0".
const DisableEnv = "MCP_UI_CLI_HINTS"

func Enabled(getenv func(string) string) bool {
	switch strings.ToLower(strings.TrimSpace(getenv(DisableEnv))) {
	case "false", "0", "off":
		return false
	}
	return true
}

var (
	TipCyan           = color.New(color.FgCyan)
	TipCyanBoldItalic = color.New(color.FgCyan, color.Bold, color.Italic)
	TipGreen          = color.New(color.FgGreen)
	TipRed            = color.New(color.FgRed)
)
