package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/reins-ai/reins"
	"github.com/reins-ai/reins/schema"
	"github.com/reins-ai/reins/usage"
)

// toolset binds tool handlers to the governed client.
type toolset struct {
	client Client
}

// decodeArgs unmarshals the request arguments into a typed args struct.
func decodeArgs(req mcp.CallToolRequest, v any) error {
	if req.Params.Arguments == nil {
		return nil
	}
	data, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse arguments: %w", err)
	}
	return nil
}

func chatTool() mcp.Tool {
	params := schema.Object().
		Field("prompt", schema.String().Desc("The user prompt to send").Required()).
		Field("model", schema.String().Desc("Model id override, e.g. claude-haiku-4-5; omit for the configured default")).
		Field("system", schema.String().Desc("System prompt")).
		Field("temperature", schema.Number().Desc("Sampling temperature").Min(0).Max(2)).
		Field("max_tokens", schema.Int().Desc("Maximum number of tokens to generate").Min(1)).
		MustBuild()
	return mcp.NewToolWithRawSchema("ai_chat",
		"Send a prompt to an AI chat model and return its reply. Calls are rate limited, retried on transient failures, and recorded in the usage ledger.",
		params)
}

func (s *toolset) chat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Prompt      string  `json:"prompt"`
		Model       string  `json:"model"`
		System      string  `json:"system"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.Prompt == "" {
		return mcp.NewToolResultError("prompt is required"), nil
	}

	var opts []reins.Option
	if args.Model != "" {
		opts = append(opts, reins.WithModel(args.Model))
	}
	if args.System != "" {
		opts = append(opts, reins.WithSystem(args.System))
	}
	if args.Temperature > 0 {
		opts = append(opts, reins.WithTemperature(args.Temperature))
	}
	if args.MaxTokens > 0 {
		opts = append(opts, reins.WithMaxTokens(args.MaxTokens))
	}

	resp, err := s.client.Chat(ctx, []reins.Message{{Role: reins.RoleUser, Content: args.Prompt}}, opts...)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(resp.Content), nil
}

func searchTool() mcp.Tool {
	params := schema.Object().
		Field("query", schema.String().Desc("The search query").Required()).
		Field("num", schema.Int().Desc("Number of results to return").Min(1).Max(10)).
		MustBuild()
	return mcp.NewToolWithRawSchema("web_search",
		"Search the web with Google Custom Search. Returns matching results as JSON. Queries are rate limited and recorded in the usage ledger.",
		params)
}

func (s *toolset) search(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Query string `json:"query"`
		Num   int    `json:"num"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.Query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	var opts []reins.SearchOption
	if args.Num > 0 {
		opts = append(opts, reins.WithNum(args.Num))
	}

	results, err := s.client.Search(ctx, args.Query, opts...)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

func usageTool() mcp.Tool {
	params := schema.Object().
		Field("date", schema.String().Desc("Ledger date in YYYY-MM-DD form; omit for today").Pattern(`^\d{4}-\d{2}-\d{2}$`)).
		MustBuild()
	return mcp.NewToolWithRawSchema("usage_today",
		"Report API usage recorded in the ledger: tokens, USD cost, and request counts per provider and model. Defaults to today; days split at UTC midnight.",
		params)
}

func (s *toolset) usage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Date string `json:"date"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var day usage.DayUsage
	if args.Date != "" {
		if _, err := time.Parse("2006-01-02", args.Date); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid date %q: want YYYY-MM-DD", args.Date)), nil
		}
		day = s.client.UsageOn(args.Date)
	} else {
		day = s.client.UsageToday()
	}

	data, err := json.MarshalIndent(day, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal usage: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}
