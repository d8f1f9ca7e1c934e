package chain

import (
	"regexp"
	"strings"
)

var (
	scriptBlock  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	eventHandler = regexp.MustCompile(`(?i)\s*\bon\w+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
)

// Sanitize strips <script> blocks and inline on* event handler attributes
// from model generated markup. It is a best-effort filter for trusted
// renderers, not an HTML sanitizer.
func Sanitize(html string) string {
	html = scriptBlock.ReplaceAllString(html, "")
	html = eventHandler.ReplaceAllString(html, "")
	return strings.TrimSpace(html)
}
