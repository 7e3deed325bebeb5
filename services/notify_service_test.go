package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "plain text without handles", nil},
		{"single", "thanks @alice for the tip", []string{"alice"}},
		{"multiple in order", "cc @bob and @alice", []string{"bob", "alice"}},
		{"duplicates collapsed", "@alice again @alice", []string{"alice"}},
		{"underscores and digits", "ping @dev_2", []string{"dev_2"}},
		{"at sign inside email still matches", "mail me at a@example.com", []string{"example"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMentions(tt.text))
		})
	}
}
