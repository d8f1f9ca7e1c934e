// Package eraser renders diagrams with the Eraser AI diagram API.
package eraser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

const (
	DefaultEndpoint = "https://app.eraser.io/api/render"

	APIKeyEnv   = "ERASER_API_KEY"
	EndpointEnv = "ERASER_API_URL"
)

// Formats lists the accepted image formats. The first is the default.
var Formats = []string{"png", "jpeg", "webp"}

var (
	ErrMissingAPIKey = errors.New(APIKeyEnv + " is not set in the environment. Set it to enable diagram generation.")
	ErrNoImage       = errors.New("Eraser API response did not include an image URL or base64 payload.") //nolint:staticcheck
)

var (
	imagePaths = []string{"$.imageBase64", "$.image_base64", "$.image"}
	linkPaths  = []string{"$.diagramUrl", "$.imageUrl", "$.image_url", "$.url"}
)

// Request describes a diagram to render.
type Request struct {
	Prompt      string
	Format      string
	AspectRatio string
}

// Diagram is a rendered diagram. ImageSrc is either a data URI or an http(s)
// URL. Link, when set, opens the diagram in Eraser.
type Diagram struct {
	ImageSrc string
	Link     string
}

// Client calls the render endpoint.
type Client struct {
	HTTPClient *http.Client
	APIKey     string
	Endpoint   string
}

// NewClientFromEnv reads ERASER_API_KEY and ERASER_API_URL through getenv,
// or os.Getenv when getenv is nil.
func NewClientFromEnv(getenv func(string) string) *Client {
	if getenv == nil {
		getenv = os.Getenv
	}
	endpoint := strings.TrimSpace(getenv(EndpointEnv))
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		HTTPClient: http.DefaultClient,
		APIKey:     strings.TrimSpace(getenv(APIKeyEnv)),
		Endpoint:   endpoint,
	}
}

// NormalizeFormat returns the default format for "" and rejects unknown ones.
func NormalizeFormat(format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return Formats[0], nil
	}
	for _, f := range Formats {
		if f == format {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported diagram format %q, expected one of %s", format, strings.Join(Formats, ", "))
}

// Render asks Eraser to draw req.
func (c *Client) Render(ctx context.Context, req Request) (*Diagram, error) {
	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	format, err := NormalizeFormat(req.Format)
	if err != nil {
		return nil, err
	}

	body := map[string]string{"prompt": req.Prompt, "format": format}
	if req.AspectRatio != "" {
		body["aspectRatio"] = req.AspectRatio
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling Eraser API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading Eraser API response: %w", err)
	}

	var parsed any = map[string]any{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return nil, fmt.Errorf("Eraser API returned a non-JSON response: %s", raw) //nolint:staticcheck
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := firstString(parsed, "$.error", "$.message")
		if message == "" {
			message = string(raw)
		}
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("Eraser API request failed (%d): %s", resp.StatusCode, message) //nolint:staticcheck
	}

	link := pickLink(parsed)
	image := firstString(parsed, imagePaths...)
	switch {
	case image != "":
		if !strings.HasPrefix(image, "data:image/") {
			image = "data:image/" + format + ";base64," + image
		}
	case link != "":
		image = link
	default:
		return nil, ErrNoImage
	}

	return &Diagram{ImageSrc: image, Link: link}, nil
}

// firstString returns the first non-empty string found at paths.
func firstString(doc any, paths ...string) string {
	for _, path := range paths {
		value, err := jsonpath.Get(path, doc)
		if err != nil {
			continue
		}
		if s, ok := value.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// pickLink returns the first candidate that parses as an http(s) URL.
func pickLink(doc any) string {
	for _, path := range linkPaths {
		value, err := jsonpath.Get(path, doc)
		if err != nil {
			continue
		}
		s, ok := value.(string)
		if !ok {
			continue
		}
		u, err := url.Parse(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			continue
		}
		return u.String()
	}
	return ""
}
