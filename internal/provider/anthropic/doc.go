// Package anthropic provides an Anthropic Claude API client implementing
// [reins.ChatProvider].
//
// This package wraps the official Anthropic Go SDK. System text travels in
// the request's top-level system field, so reins.WithSystem and system-role
// messages are lifted out of the message list during conversion.
//
// # Basic Usage
//
//	client := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
//
//	messages := []reins.Message{
//	    {Role: reins.RoleUser, Content: "Explain quantum computing briefly."},
//	}
//
//	resp, err := client.Chat(ctx, messages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// # Model Selection
//
// Set a default model at client creation:
//
//	client := anthropic.New(apiKey, anthropic.WithModel(model.ClaudeOpus45.String()))
//
// Or per-request with reins.WithModel.
package anthropic
