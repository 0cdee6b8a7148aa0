package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"summary\": \"ok\"}\n```",
			expected: `{"summary": "ok"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n[\"채용\", \"취업\"]\n```",
			expected: `["채용", "취업"]`,
		},
		{
			name:     "code block with other language",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "preamble before object",
			input:    "분석 결과입니다:\n{\"category\": \"IT\"}",
			expected: `{"category": "IT"}`,
		},
		{
			name:     "preamble before array",
			input:    "Here are the keywords:\n[\"백엔드 채용\", \"개발자 채용\"]",
			expected: `["백엔드 채용", "개발자 채용"]`,
		},
		{
			name:     "trailing chatter",
			input:    "{\"key\": \"value\"}\n\nLet me know if you need anything else!",
			expected: `{"key": "value"}`,
		},
		{
			name:     "escaped quotes",
			input:    "Result: {\"summary\": \"He said \\\"hi\\\"\"}",
			expected: `{"summary": "He said \"hi\""}`,
		},
		{
			name:     "no JSON at all",
			input:    "  true ",
			expected: "true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"a": {"b": 1}}`, extractJSONObject(`{"a": {"b": 1}} tail`))
	assert.Equal(t, `{"t": "Hello {name}!"}`, extractJSONObject(`{"t": "Hello {name}!"}`))
	assert.Equal(t, "", extractJSONObject(""))
	assert.Equal(t, "", extractJSONObject("not json"))
	assert.Equal(t, "", extractJSONObject(`{"open": true`))
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `[[1, 2], [3]]`, extractJSONArray(`[[1, 2], [3]] extra`))
	assert.Equal(t, `[{"id": 1}, {"id": 2}]`, extractJSONArray(`[{"id": 1}, {"id": 2}]`))
	assert.Equal(t, `["a]b"]`, extractJSONArray(`["a]b"]`))
	assert.Equal(t, "", extractJSONArray("not array"))
}
