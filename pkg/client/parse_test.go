package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"trailing comma", `{"a":[1,2,],}`, `{"a":[1,2]}`},
		{"comments", "{\n// note\n\"a\":1 /* x */\n}", "{\n\n\"a\":1 \n}"},
		{"prose around", `Sure! {"a":1} hope this helps`, `{"a":1}`},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, SanitizeModelJSON(test.raw), test.name)
	}
}

func TestParseLocateResult(t *testing.T) {
	result, err := ParseLocateResult("```json\n" + `{
		"subject": {"label": "flower", "confidence": 0.9, "box": {"x": 0.1, "y": 0.2, "w": 0.5, "h": 0.6}},
		"description": "a clover outline",
	}` + "\n```")
	require.NoError(t, err)
	assert.Equal(t, "flower", result.Subject.Label)
	assert.InDelta(t, 0.6, result.Subject.Box.H, 1e-9)

	_, err = ParseLocateResult("I cannot see an image")
	assert.Error(t, err)

	_, err = ParseLocateResult(`{"subject": "broken"}`)
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
