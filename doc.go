// Package reins governs outbound AI API calls: admission control via a
// sliding-window request counter, automatic retry with linear backoff, and
// per-day usage accounting (tokens, estimated cost, request counts)
// persisted across process restarts.
//
// The reins library wraps calls to Anthropic (Claude), OpenAI (GPT), Google
// (Gemini), Google Custom Search, and OpenAI-compatible proxies such as AI
// Pipe behind a single governed client, so call sites get budget enforcement
// and accounting without touching vendor SDKs directly.
//
// # Core Pieces
//
//   - [github.com/reins-ai/reins/ratelimit]: sliding-window admission control
//   - [github.com/reins-ai/reins/retry]: linear-backoff retry for transient failures
//   - [github.com/reins-ai/reins/usage]: daily usage ledger, persisted after every call
//   - [github.com/reins-ai/reins/govern]: composes the three around any operation
//   - [github.com/reins-ai/reins/client]: governed chat and search client
//
// This root package holds the shared vocabulary: provider tags, message and
// response types, the error taxonomy, and functional request options.
//
// # Basic Usage
//
// Send a governed chat message:
//
//	c, err := client.New(ctx, client.Config{
//	    APIKeys: client.APIKeys{
//	        OpenAI: os.Getenv("OPENAI_API_KEY"),
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	messages := []reins.Message{
//	    {Role: reins.RoleUser, Content: "What is the capital of France?"},
//	}
//
//	resp, err := c.Chat(ctx, messages, reins.WithModel(model.GPT52.String()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// Every successful call is admitted through the model's rate window, retried
// on transient failure, and recorded in the usage ledger.
//
// # Governing Arbitrary Calls
//
// The governor is call-shape-agnostic; any operation can be governed:
//
//	g, err := govern.New(reins.ProviderOpenAI, "gpt-5.2",
//	    govern.WithLimit(60, time.Minute),
//	    govern.WithRetry(retry.Config{MaxAttempts: 3, Delay: time.Second}),
//	    govern.WithTracker(tracker),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	body, err := govern.Do(ctx, g, func(ctx context.Context) (string, govern.Usage, error) {
//	    // make the HTTP request, then report what it consumed
//	})
//
// # Error Handling
//
// Admission denials surface as [*RateLimitError] with a RetryAfter hint and
// are never retried by the governor itself. Provider failures are wrapped as
// [CategorizedError]; transient ones (429s, 5xx, network) are retried up to
// the configured ceiling, permanent and user-input ones fail fast:
//
//	resp, err := c.Chat(ctx, messages)
//	if reins.IsRateLimit(err) {
//	    // back off or surface to the user
//	}
//
// # Usage Reporting
//
// The ledger is keyed date -> provider -> model and survives restarts:
//
//	today := c.UsageToday()
//	for provider, models := range today {
//	    for model, rec := range models {
//	        fmt.Printf("%s/%s: %d req, %d tok, $%.4f\n",
//	            provider, model, rec.Requests, rec.Tokens, rec.Cost)
//	    }
//	}
package reins
