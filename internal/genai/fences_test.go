package genai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text untouched",
			input:    "# Tender Document\n\nBody text",
			expected: "# Tender Document\n\nBody text",
		},
		{
			name:     "markdown fence removed",
			input:    "```markdown\n# Tender Document\n```",
			expected: "# Tender Document",
		},
		{
			name:     "md fence removed",
			input:    "```md\n# Title\n```",
			expected: "# Title",
		},
		{
			name:     "json fence removed",
			input:    "```json\n{\"title\": \"x\"}\n```",
			expected: "{\"title\": \"x\"}",
		},
		{
			name:     "bare fence removed",
			input:    "```\ncontent\n```",
			expected: "content",
		},
		{
			name:     "leading whitespace tolerated",
			input:    "  ```markdown\n# Doc\n```  ",
			expected: "# Doc",
		},
		{
			name:     "fence inside body preserved",
			input:    "Intro\n```go\ncode\n```\nOutro",
			expected: "Intro\n```go\ncode\n```\nOutro",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripFences(tt.input))
		})
	}
}

func TestClassify(t *testing.T) {
	quota := Classify(errors.New("429: insufficient_quota"))
	assert.Equal(t, ReasonQuota, quota.Reason)

	rate := Classify(errors.New("rate limit reached for model"))
	assert.Equal(t, ReasonQuota, rate.Reason)

	authErr := Classify(errors.New("incorrect API key provided"))
	assert.Equal(t, ReasonAuth, authErr.Reason)

	other := Classify(errors.New("connection reset by peer"))
	assert.Equal(t, ReasonOther, other.Reason)
	assert.ErrorContains(t, other, "connection reset")
}

func TestTokenCounterHeuristicFallback(t *testing.T) {
	c := &TokenCounter{}
	assert.Equal(t, 10, c.Count("aaaabbbbccccddddeeeeffffgggghhhhiiiijjjj"))
}
