package openai

import (
	"github.com/openai/openai-go"

	"github.com/reins-ai/reins"
)

// convertMessages maps the conversation onto OpenAI's message union. A
// non-empty system prompt becomes the leading system message; empty
// messages are skipped because the API rejects them.
func convertMessages(system string, messages []reins.Message) []openai.ChatCompletionMessageParamUnion {
	var result []openai.ChatCompletionMessageParamUnion
	if system != "" {
		result = append(result, openai.SystemMessage(system))
	}
	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case reins.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		case reins.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}
