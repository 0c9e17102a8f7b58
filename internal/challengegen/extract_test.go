package challengegen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPayload(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare object",
			raw:  `{"title":"x"}`,
			want: `{"title":"x"}`,
		},
		{
			name: "json fence",
			raw:  "Here you go:\n```json\n{\"title\":\"x\"}\n```\nEnjoy!",
			want: `{"title":"x"}`,
		},
		{
			name: "plain fence",
			raw:  "```\n{\"title\":\"x\"}\n```",
			want: `{"title":"x"}`,
		},
		{
			name: "unterminated fence",
			raw:  "```json\n{\"title\":\"x\"}",
			want: `{"title":"x"}`,
		},
		{
			name: "object in prose",
			raw:  `Sure! {"title":"x","hints":["a","b"]} hope that helps`,
			want: `{"title":"x","hints":["a","b"]}`,
		},
		{
			name: "braces inside strings",
			raw:  `{"answer":"s := []int{}","q":"close } early"}`,
			want: `{"answer":"s := []int{}","q":"close } early"}`,
		},
		{
			name: "escaped quote",
			raw:  `{"answer":"print(\"}\")"} trailing`,
			want: `{"answer":"print(\"}\")"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractPayload(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPayload_Malformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "no json here", `{"title": "x"`, "```json\n```"} {
		_, err := ExtractPayload(raw)
		assert.True(t, errors.Is(err, ErrMalformedOutput), "raw=%q", raw)
	}
}
