package uiresource

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed scripts/panel.js
var PanelScript string

//go:embed scripts/hello.js
var HelloScript string

//go:embed scripts/logo-toggle.js
var LogoToggleScript string

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Card is a simple titled card with an optional call to action.
type Card struct {
	Title     string
	Body      string
	LinkURL   string
	LinkLabel string
}

// ErrorCard describes a failure to the user.
type ErrorCard struct {
	Title   string
	Message string
	Hint    string
}

// MissingCredential is one unset API key shown by CredentialsCard.
type MissingCredential struct {
	Label    string
	Provider string
	EnvVar   string
}

// CredentialsCard lists the API keys a chain still needs.
type CredentialsCard struct {
	Chain   string
	Missing []MissingCredential
}

// RenderCard renders card as an HTML fragment. Fields are escaped.
func RenderCard(card Card) (string, error) {
	return render("card.html", card)
}

// RenderErrorCard renders card as an HTML fragment. Fields are escaped.
func RenderErrorCard(card ErrorCard) (string, error) {
	return render("error.html", card)
}

// RenderCredentialsCard renders card as an HTML fragment. Fields are escaped.
func RenderCredentialsCard(card CredentialsCard) (string, error) {
	return render("credentials.html", card)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
