package usage

import (
	"unicode/utf8"

	"github.com/reins-ai/reins"
)

// EstimateTokens approximates the token count of text as one token per four
// characters, rounded up. This is a known-inexact heuristic, not a
// tokenizer; prefer provider-reported usage whenever a response carries it.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}

// EstimateMessages sums token estimates over a conversation's content.
func EstimateMessages(messages []reins.Message) int {
	total := 0
	for _, m := range messages {
		total += EstimateTokens(m.Content)
	}
	return total
}
