package eraser

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"
)

//go:embed diagram.html
var diagramHTML string

var diagramTemplate = template.Must(template.New("diagram").Parse(diagramHTML))

const DefaultTitle = "Eraser AI Diagram"

// RenderHTML renders d as an HTML card showing the image and the prompt.
func RenderHTML(d *Diagram, prompt, title string) (string, error) {
	if title == "" {
		title = DefaultTitle
	}

	var buf bytes.Buffer
	err := diagramTemplate.Execute(&buf, struct {
		Title    string
		Prompt   string
		// Render only builds ImageSrc from data:image/ payloads and http(s) URLs.
		ImageSrc template.URL
		Link     string
	}{
		Title:    title,
		Prompt:   prompt,
		ImageSrc: template.URL(d.ImageSrc), //nolint:gosec
		Link:     d.Link,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
