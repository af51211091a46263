package reins

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateMessageID(t *testing.T) {
	t.Run("has msg prefix", func(t *testing.T) {
		id := GenerateMessageID()
		assert.True(t, strings.HasPrefix(id, "msg-"))
	})

	t.Run("generates unique identifiers", func(t *testing.T) {
		seen := make(map[string]bool)
		for range 100 {
			id := GenerateMessageID()
			assert.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
	})
}

func TestUsageTotal(t *testing.T) {
	tests := []struct {
		name  string
		usage Usage
		want  int
	}{
		{name: "both counted", usage: Usage{InputTokens: 120, OutputTokens: 80}, want: 200},
		{name: "output only", usage: Usage{OutputTokens: 42}, want: 42},
		{name: "unreported", usage: Usage{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.usage.Total())
		})
	}
}
