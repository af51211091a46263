// Package client provides a governed multi-provider client for outbound
// AI and search calls.
//
// The Client wraps provider-specific implementations and provides:
//
//   - Model-centric routing: Models know their provider; switching is automatic
//   - Call governance: per-model sliding-window admission, linear-backoff
//     retries, and per-day usage accounting on every call
//   - Multi-provider support: Configure all providers at once, use any model
//   - Event emission: Observable operations via channel
//
// # Basic Usage
//
// Create a client with API keys and default models:
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
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	resp, err := c.Chat(ctx, []reins.Message{
//	    {Role: reins.RoleUser, Content: "Hello!"},
//	})
//
// # Model-Centric Routing
//
// Models determine their provider. The client routes automatically:
//
//	// Uses default model (routes to Anthropic)
//	resp, _ := c.Chat(ctx, messages)
//
//	// Override with GPT-5.2 (routes to OpenAI)
//	resp, _ := c.Chat(ctx, messages, reins.WithModel(model.GPT52.String()))
//
// Models outside the built-in catalog, such as AI Pipe routed ids, register
// through Config.ExtraModels:
//
//	nano := model.NewChatModel("openai/gpt-4.1-nano", reins.ProviderAIPipe,
//	    model.ChatPricing{InputPer1K: 0.0001, OutputPer1K: 0.0004})
//	cfg.ExtraModels = []model.ChatModel{nano}
//
// # Rate Limits
//
// Every provider/model identity draws on its own sliding-window budget,
// DefaultRateLimit unless overridden:
//
//	cfg.RateLimit = ratelimit.Limit{MaxRequests: 30, Window: time.Minute}
//	cfg.ModelLimits = map[string]ratelimit.Limit{
//	    "openai/gpt-5.2": {MaxRequests: 5, Window: time.Minute},
//	}
//
// A denied call fails fast with *reins.RateLimitError carrying the wait
// until the window frees up.
//
// # Usage Accounting
//
// Successful calls are priced from the model catalog and persisted through
// the configured store after every mutation:
//
//	cfg.Store, _ = store.NewFileAdapter("/var/lib/reins")
//
//	for provider, models := range c.UsageToday() {
//	    for id, rec := range models {
//	        fmt.Printf("%s/%s: %d calls, %d tokens, $%.4f\n",
//	            provider, id, rec.Requests, rec.Tokens, rec.Cost)
//	    }
//	}
//
// # Events
//
// Observe governed calls via an event channel:
//
//	events := make(chan govern.Event, 100)
//	cfg.Events = events
//
//	go func() {
//	    for e := range events {
//	        fmt.Printf("[%s] %s took %v\n", e.Type, e.Key, e.Duration)
//	    }
//	}()
package client
