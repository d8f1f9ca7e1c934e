package chain

import (
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	plannerSystemPrompt = "You are a senior product designer. Plan the layout of the requested UI: " +
		"list its sections, components and content hierarchy as a concise numbered plan. Do not write HTML."

	reviewerSystemPrompt = "You are an accessibility and UX reviewer. Review the proposed layout plan " +
		"for semantic structure, keyboard and screen reader support, color contrast and usability, " +
		"and list concrete improvements."

	generatorSystemPrompt = "You are a front-end coder. Generate final HTML only (no Markdown fences), " +
		"with inline styles and ARIA-friendly markup."

	generatorInstruction = "Return a single self-contained HTML fragment with inline styles. " +
		"Do not reference external assets, stylesheets or scripts."

	noPlanPlaceholder = "No layout plan was provided."

	accessibilityHint = "Prioritize semantic, accessible HTML with inline styles only."
)

// ComposePrompt folds the optional theme and component hints into the prompt.
func ComposePrompt(req Request) string {
	lines := []string{strings.TrimSpace(req.Prompt)}
	if theme := strings.TrimSpace(req.Theme); theme != "" {
		lines = append(lines, "Theme preference: "+theme+".")
	}

	var components []string
	for _, component := range req.Components {
		if component = strings.TrimSpace(component); component != "" {
			components = append(components, component)
		}
	}
	if len(components) > 0 {
		lines = append(lines, "Highlight components: "+strings.Join(components, ", ")+".")
	}

	lines = append(lines, accessibilityHint)
	return strings.Join(lines, "\n")
}

// BuildMessages returns the system and user messages for a stage. It is a pure
// function of its inputs.
func BuildMessages(role Role, prompt, plan, review string) []openai.ChatCompletionMessage {
	var system, user string

	switch role {
	case RolePlanner:
		system = plannerSystemPrompt
		user = prompt
	case RoleReviewer:
		if plan == "" {
			plan = noPlanPlaceholder
		}
		system = reviewerSystemPrompt
		user = "User request:\n" + prompt + "\n\nProposed layout plan:\n" + plan
	default:
		var b strings.Builder
		b.WriteString(prompt)
		if plan != "" {
			b.WriteString("\n\nLayout plan:\n")
			b.WriteString(plan)
		}
		if review != "" {
			b.WriteString("\n\nReview notes:\n")
			b.WriteString(review)
		}
		b.WriteString("\n\n")
		b.WriteString(generatorInstruction)
		system = generatorSystemPrompt
		user = b.String()
	}

	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: user},
	}
}
