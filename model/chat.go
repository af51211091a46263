package model

import "github.com/reins-ai/reins"

// ChatModel represents a chat/completion model from any provider.
type ChatModel struct {
	id       string
	provider reins.Provider
	pricing  ChatPricing
}

// NewChatModel builds a model for ids outside the catalog, such as
// OpenRouter-style ids routed through the AI Pipe proxy. Zero pricing
// disables cost accounting for the model.
func NewChatModel(id string, provider reins.Provider, pricing ChatPricing) ChatModel {
	return ChatModel{id: id, provider: provider, pricing: pricing}
}

// String returns the API identifier for this model.
func (m ChatModel) String() string { return m.id }

// Provider returns which provider this model belongs to.
func (m ChatModel) Provider() reins.Provider { return m.provider }

// Pricing returns the pricing for this model.
func (m ChatModel) Pricing() ChatPricing { return m.pricing }

// Cost returns the USD cost of the given usage at this model's rates.
func (m ChatModel) Cost(usage reins.Usage) float64 {
	return CalculateCost(usage, m.pricing)
}

// Anthropic Claude Models
// Model pricing last verified: December 14, 2025
var (
	ClaudeOpus45   = ChatModel{id: "claude-opus-4-5", provider: reins.ProviderAnthropic, pricing: ChatPricing{InputPer1K: 0.005, OutputPer1K: 0.025}}
	ClaudeSonnet45 = ChatModel{id: "claude-sonnet-4-5", provider: reins.ProviderAnthropic, pricing: ChatPricing{InputPer1K: 0.003, OutputPer1K: 0.015}}
	ClaudeHaiku45  = ChatModel{id: "claude-haiku-4-5", provider: reins.ProviderAnthropic, pricing: ChatPricing{InputPer1K: 0.001, OutputPer1K: 0.005}}

	// DefaultClaudeModel is the recommended default Anthropic model.
	DefaultClaudeModel = ClaudeSonnet45
)

// OpenAI GPT and O-Series Models
// Model pricing last verified: December 14, 2025
var (
	GPT52     = ChatModel{id: "gpt-5.2", provider: reins.ProviderOpenAI, pricing: ChatPricing{InputPer1K: 0.00175, OutputPer1K: 0.014}}
	GPT51     = ChatModel{id: "gpt-5.1", provider: reins.ProviderOpenAI, pricing: ChatPricing{InputPer1K: 0.00125, OutputPer1K: 0.010}}
	GPT51Mini = ChatModel{id: "gpt-5.1-mini", provider: reins.ProviderOpenAI, pricing: ChatPricing{InputPer1K: 0.0003, OutputPer1K: 0.00125}}
	GPT5Mini  = ChatModel{id: "gpt-5-mini", provider: reins.ProviderOpenAI, pricing: ChatPricing{InputPer1K: 0.00025, OutputPer1K: 0.001}}
	O4Mini    = ChatModel{id: "o4-mini", provider: reins.ProviderOpenAI, pricing: ChatPricing{InputPer1K: 0.0005, OutputPer1K: 0.002}}

	// DefaultGPTModel is the recommended default OpenAI model.
	DefaultGPTModel = GPT52
)

// Google Gemini Models
// Model pricing last verified: December 14, 2025
var (
	Gemini3Pro        = ChatModel{id: "gemini-3.0-pro", provider: reins.ProviderGoogle, pricing: ChatPricing{InputPer1K: 0.002, OutputPer1K: 0.012}}
	Gemini25Pro       = ChatModel{id: "gemini-2.5-pro", provider: reins.ProviderGoogle, pricing: ChatPricing{InputPer1K: 0.00125, OutputPer1K: 0.010}}
	Gemini25Flash     = ChatModel{id: "gemini-2.5-flash", provider: reins.ProviderGoogle, pricing: ChatPricing{InputPer1K: 0.00015, OutputPer1K: 0.0006}}
	Gemini25FlashLite = ChatModel{id: "gemini-2.5-flash-lite", provider: reins.ProviderGoogle, pricing: ChatPricing{InputPer1K: 0.000075, OutputPer1K: 0.0003}}

	// DefaultGeminiModel is the recommended default Google model.
	DefaultGeminiModel = Gemini25Flash
)

// catalog lists every built-in chat model, for id lookups.
var catalog = []ChatModel{
	ClaudeOpus45, ClaudeSonnet45, ClaudeHaiku45,
	GPT52, GPT51, GPT51Mini, GPT5Mini, O4Mini,
	Gemini3Pro, Gemini25Pro, Gemini25Flash, Gemini25FlashLite,
}

// AllChat returns the built-in chat model catalog.
func AllChat() []ChatModel {
	out := make([]ChatModel, len(catalog))
	copy(out, catalog)
	return out
}

// ChatByID looks up a built-in chat model by API identifier.
func ChatByID(id string) (ChatModel, bool) {
	for _, m := range catalog {
		if m.id == id {
			return m, true
		}
	}
	return ChatModel{}, false
}
