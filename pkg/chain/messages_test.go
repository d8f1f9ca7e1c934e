package chain

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposePrompt(t *testing.T) {
	t.Run("prompt only", func(t *testing.T) {
		assert.Equal(t,
			"A pricing table\nPrioritize semantic, accessible HTML with inline styles only.",
			ComposePrompt(Request{Prompt: "  A pricing table  "}))
	})

	t.Run("theme and components", func(t *testing.T) {
		got := ComposePrompt(Request{
			Prompt:     "A pricing table",
			Theme:      "dark",
			Components: []string{"card", " ", "toggle"},
		})
		assert.Equal(t, "A pricing table\n"+
			"Theme preference: dark.\n"+
			"Highlight components: card, toggle.\n"+
			"Prioritize semantic, accessible HTML with inline styles only.", got)
	})
}

func TestBuildMessages_Planner(t *testing.T) {
	messages := BuildMessages(RolePlanner, "Build a login form", "", "")

	require.Len(t, messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, plannerSystemPrompt, messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, messages[1].Role)
	assert.Equal(t, "Build a login form", messages[1].Content)
}

func TestBuildMessages_Reviewer(t *testing.T) {
	t.Run("with plan", func(t *testing.T) {
		messages := BuildMessages(RoleReviewer, "Build a login form", "1. Header\n2. Form", "")
		assert.Equal(t, reviewerSystemPrompt, messages[0].Content)
		assert.Equal(t, "User request:\nBuild a login form\n\nProposed layout plan:\n1. Header\n2. Form", messages[1].Content)
	})

	t.Run("without plan", func(t *testing.T) {
		messages := BuildMessages(RoleReviewer, "Build a login form", "", "")
		assert.Equal(t, "User request:\nBuild a login form\n\nProposed layout plan:\nNo layout plan was provided.", messages[1].Content)
	})
}

func TestBuildMessages_Generator(t *testing.T) {
	tests := []struct {
		name     string
		plan     string
		review   string
		expected string
	}{
		{
			name: "prompt only",
			expected: "Build a login form\n\n" +
				"Return a single self-contained HTML fragment with inline styles. " +
				"Do not reference external assets, stylesheets or scripts.",
		},
		{
			name: "plan and review",
			plan: "1. Form", review: "Add labels",
			expected: "Build a login form\n\nLayout plan:\n1. Form\n\nReview notes:\nAdd labels\n\n" +
				"Return a single self-contained HTML fragment with inline styles. " +
				"Do not reference external assets, stylesheets or scripts.",
		},
		{
			name:   "review without plan",
			review: "Add labels",
			expected: "Build a login form\n\nReview notes:\nAdd labels\n\n" +
				"Return a single self-contained HTML fragment with inline styles. " +
				"Do not reference external assets, stylesheets or scripts.",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			messages := BuildMessages(RoleGenerator, "Build a login form", tc.plan, tc.review)
			require.Len(t, messages, 2)
			assert.Equal(t, generatorSystemPrompt, messages[0].Content)
			assert.Equal(t, tc.expected, messages[1].Content)
		})
	}
}

func TestBuildMessages_Deterministic(t *testing.T) {
	first := BuildMessages(RoleGenerator, "p", "plan", "review")
	second := BuildMessages(RoleGenerator, "p", "plan", "review")
	assert.Equal(t, first, second)
}
