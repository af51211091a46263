package google

import (
	"google.golang.org/genai"

	"github.com/reins-ai/reins"
)

// convertMessages maps the conversation onto Gemini contents. Gemini calls
// the assistant role "model" and takes system text as a separate system
// instruction rather than a message; an explicit system prompt and any
// system-role messages are combined into one instruction, reading order
// preserved.
func convertMessages(system string, messages []reins.Message) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var systemParts []*genai.Part

	if system != "" {
		systemParts = append(systemParts, &genai.Part{Text: system})
	}

	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case reins.RoleSystem:
			systemParts = append(systemParts, &genai.Part{Text: msg.Content})
		case reins.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	var instruction *genai.Content
	if len(systemParts) > 0 {
		instruction = &genai.Content{Parts: systemParts}
	}
	return contents, instruction
}
