package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		want    []string
	}{
		{
			name:    "empty caption",
			caption: "",
			want:    []string{},
		},
		{
			name:    "no hashtags",
			caption: "just a plain caption",
			want:    []string{},
		},
		{
			name:    "single hashtag",
			caption: "enjoying the #sunset",
			want:    []string{"sunset"},
		},
		{
			name:    "duplicates retained in order",
			caption: "Loving this #sunset at @beachclub #sunset!",
			want:    []string{"sunset", "sunset"},
		},
		{
			name:    "punctuation terminates token",
			caption: "#beach, #sea. #sun!",
			want:    []string{"beach", "sea", "sun"},
		},
		{
			name:    "underscore and digits allowed",
			caption: "#summer_2024 vibes",
			want:    []string{"summer_2024"},
		},
		{
			name:    "unicode hashtags",
			caption: "#日本 #café time",
			want:    []string{"日本", "café"},
		},
		{
			name:    "bare hash ignored",
			caption: "number # one",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractHashtags(tt.caption))
		})
	}
}

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		want    []string
	}{
		{
			name:    "empty caption",
			caption: "",
			want:    []string{},
		},
		{
			name:    "single mention",
			caption: "Loving this #sunset at @beachclub #sunset!",
			want:    []string{"beachclub"},
		},
		{
			name:    "multiple mentions in order",
			caption: "with @alice and @bob_99",
			want:    []string{"alice", "bob_99"},
		},
		{
			name:    "duplicates retained",
			caption: "@alice again @alice",
			want:    []string{"alice", "alice"},
		},
		{
			name:    "bare at-sign ignored",
			caption: "meet @ the beach",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMentions(tt.caption))
		})
	}
}
