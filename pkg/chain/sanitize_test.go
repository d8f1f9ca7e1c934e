package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"script and handler", `<p onclick="x()">hi</p><script>evil()</script>`, `<p>hi</p>`},
		{"mixed case handler", `<button onClick='go()' type="button">Go</button>`, `<button type="button">Go</button>`},
		{"upper case handler", `<button ONCLICK='go()'>Go</button>`, `<button>Go</button>`},
		{"unquoted handler", `<img src="a.png" onerror=alert(1)>`, `<img src="a.png">`},
		{"after double quote", `<img src="x"onerror="alert(1)">`, `<img src="x">`},
		{"after single quote", `<img src='x'onerror='alert(1)'>`, `<img src='x'>`},
		{"after slash", `<svg/onload=alert(1)>`, `<svg/>`},
		{"multiline script", "<SCRIPT type=\"module\">\nimport x from 'y'\n</SCRIPT><p>ok</p>", `<p>ok</p>`},
		{"text kept", `  <div aria-label="Lemon">online</div>  `, `<div aria-label="Lemon">online</div>`},
		{"on inside values kept", `<input name="python" value="on">`, `<input name="python" value="on">`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.out, Sanitize(tc.in))
		})
	}
}
