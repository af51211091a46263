package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reins-ai/reins"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "single char rounds up", text: "a", want: 1},
		{name: "exact multiple", text: "abcd", want: 1},
		{name: "one over rounds up", text: "abcde", want: 2},
		{name: "eight chars", text: "abcdefgh", want: 2},
		{name: "counts characters not bytes", text: "héllo", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateTokens(tt.text))
		})
	}
}

func TestEstimateMessages(t *testing.T) {
	messages := []reins.Message{
		{Role: reins.RoleSystem, Content: "abcd"},     // 1
		{Role: reins.RoleUser, Content: "abcdefgh"},   // 2
		{Role: reins.RoleAssistant, Content: ""},      // 0
		{Role: reins.RoleUser, Content: "abc"},        // 1
	}
	assert.Equal(t, 4, EstimateMessages(messages))
	assert.Zero(t, EstimateMessages(nil))
}
