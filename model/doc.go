// Package model provides model constants for all supported AI providers.
//
// This package exposes typed model constants with pricing information.
// Models know their provider, enabling automatic routing in the client, and
// their per-1000-token rates, enabling cost accounting in the usage ledger.
//
// # Chat Models
//
// Use chat models with reins.WithModel() or as client defaults:
//
//	c, err := client.New(ctx, client.Config{
//	    APIKeys: client.APIKeys{
//	        Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
//	        OpenAI:    os.Getenv("OPENAI_API_KEY"),
//	    },
//	    Defaults: client.Defaults{
//	        Chat: model.ClaudeSonnet45,
//	    },
//	})
//
//	// Override with a different model (routes to OpenAI)
//	resp, err := c.Chat(ctx, messages, reins.WithModel(model.GPT52.String()))
//
// # Custom Models
//
// Ids outside the catalog, such as OpenRouter-style ids routed through the
// AI Pipe proxy, are built with NewChatModel:
//
//	m := model.NewChatModel("openai/gpt-4o-mini", reins.ProviderAIPipe,
//	    model.ChatPricing{InputPer1K: 0.00015, OutputPer1K: 0.0006})
//
// # Pricing Information
//
// All models include pricing methods for cost estimation:
//
//	pricing := model.GPT52.Pricing()
//	cost := float64(tokens) / 1000 * pricing.InputPer1K
//
// or directly from usage:
//
//	cost := model.GPT52.Cost(resp.Usage)
//
// Prices drift; treat computed costs as estimates for budgeting, not
// invoices.
package model
