package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Already clean JSON is untouched",
			input:    `[{"video_id":"a","quote":"hi"}]`,
			expected: `[{"video_id":"a","quote":"hi"}]`,
		},
		{
			name:     "Strips json code fence wrapper",
			input:    "```json\n[{\"video_id\":\"a\",\"quote\":\"hi\"}]\n```",
			expected: `[{"video_id":"a","quote":"hi"}]`,
		},
		{
			name:     "Fence tag is case insensitive",
			input:    "```JSON\n[]\n```",
			expected: "[]",
		},
		{
			name:     "Removes trailing comma before closing brace",
			input:    `[{"video_id":"a","quote":"hi",}]`,
			expected: `[{"video_id":"a","quote":"hi"}]`,
		},
		{
			name:     "Removes trailing comma before closing bracket",
			input:    `[{"video_id":"a","quote":"hi",},]`,
			expected: `[{"video_id":"a","quote":"hi"}]`,
		},
		{
			name:     "Removes trailing comma with whitespace",
			input:    "[{\"quote\":\"hi\"}\n,\n]",
			expected: "[{\"quote\":\"hi\"}\n]",
		},
		{
			name:     "Drops control characters but keeps allowed whitespace",
			input:    "[\"a\x00b\x1fc\",\n\t\"d\"]",
			expected: "[\"abc\",\n\t\"d\"]",
		},
		{
			name:     "Decodes HTML entities",
			input:    `["Tom &amp; Jerry &lt;3"]`,
			expected: `["Tom & Jerry <3"]`,
		},
		{
			name:     "Repairs byte-smuggled UTF-8",
			input:    "[\"cafÃ©\"]",
			expected: "[\"café\"]",
		},
		{
			name:     "Trims surrounding whitespace",
			input:    "  \n[\"x\"]\n  ",
			expected: `["x"]`,
		},
		{
			name:     "Empty input stays empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Clean(tt.input))
		})
	}
}

func TestCleanIsIdempotentOnCleanText(t *testing.T) {
	// Already-clean ASCII text is a fixed point of the repair chain.
	inputs := []string{
		`[{"video_id":"a","quote":"hi"}]`,
		`{"not":"a list"}`,
		"plain prose, not JSON",
		"",
	}

	for _, input := range inputs {
		once := Clean(input)
		assert.Equal(t, once, Clean(once), "Clean should be idempotent for %q", input)
	}
}

func TestCleanFenceAndCommaTogether(t *testing.T) {
	input := "```json\n[\n  {\"video_id\": \"a\", \"quote\": \"hi\",},\n]\n```"
	got := Clean(input)
	assert.Equal(t, "[\n  {\"video_id\": \"a\", \"quote\": \"hi\"}\n]", got)
}
