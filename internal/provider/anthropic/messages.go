package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"

	"github.com/reins-ai/reins"
)

// convertMessages splits the conversation into Anthropic message params and
// system blocks; the API takes system text as a top-level field, not a
// message. An explicit system prompt becomes the first block. Empty
// messages are skipped because the API rejects empty text blocks.
func convertMessages(system string, messages []reins.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var result []anthropic.MessageParam
	var systemBlocks []anthropic.TextBlockParam

	if system != "" {
		systemBlocks = append(systemBlocks, anthropic.TextBlockParam{Text: system})
	}

	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case reins.RoleSystem:
			systemBlocks = append(systemBlocks, anthropic.TextBlockParam{Text: msg.Content})
		case reins.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return result, systemBlocks
}
