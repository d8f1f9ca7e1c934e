package chain

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// completionResponse is the subset of a chat completion body the invoker reads.
type completionResponse struct {
	Choices []struct {
		Message struct {
			Content MessageContent `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// MessageContent is a message's content: either a plain string or a list of
// parts. Shapes it does not recognize decode to empty content.
type MessageContent struct {
	Text  *string
	Parts []ContentPart
}

func (m *MessageContent) UnmarshalJSON(data []byte) error {
	*m = MessageContent{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		m.Text = &text
	case '[':
		var parts []ContentPart
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		m.Parts = parts
	}
	return nil
}

// String concatenates every text fragment in order and trims the result.
func (m MessageContent) String() string {
	if m.Text != nil {
		return strings.TrimSpace(*m.Text)
	}
	var b strings.Builder
	for _, part := range m.Parts {
		b.WriteString(part.text())
	}
	return strings.TrimSpace(b.String())
}

// ContentPart is one element of an array content. A part is a bare string,
// an object with a string "text", an object with "text": {"value": ...}, or
// an object with a string "content".
type ContentPart struct {
	Plain   *string
	Text    *string
	Content *string
}

func (p *ContentPart) UnmarshalJSON(data []byte) error {
	*p = ContentPart{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var plain string
		if err := json.Unmarshal(data, &plain); err != nil {
			return err
		}
		p.Plain = &plain
	case '{':
		var raw struct {
			Text    json.RawMessage `json:"text"`
			Content json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		p.Text = decodeText(raw.Text)
		p.Content = decodeString(raw.Content)
	}
	return nil
}

func (p ContentPart) text() string {
	switch {
	case p.Plain != nil:
		return *p.Plain
	case p.Text != nil:
		return *p.Text
	case p.Content != nil:
		return *p.Content
	default:
		return ""
	}
}

func decodeString(raw json.RawMessage) *string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return nil
	}
	return &s
}

func decodeText(raw json.RawMessage) *string {
	if s := decodeString(raw); s != nil {
		return s
	}
	var nested struct {
		Value json.RawMessage `json:"value"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &nested) != nil {
		return nil
	}
	return decodeString(nested.Value)
}

var openingFence = regexp.MustCompile("(?i)```[a-z]*\\n?")

// StripFences removes Markdown code fences and trims the result.
func StripFences(s string) string {
	s = openingFence.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
