// Package mcpserver exposes a governed client over MCP (Model Context
// Protocol), so MCP clients like Claude Desktop can chat, search the web,
// and read usage accounting through the client's rate limits, retries,
// and ledger.
//
// # Basic Usage
//
//	c, err := client.New(ctx, client.Config{
//	    APIKeys: client.APIKeys{Anthropic: os.Getenv("ANTHROPIC_API_KEY")},
//	    Defaults: client.Defaults{Chat: model.ClaudeSonnet45},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	if err := mcpserver.ServeStdio(c,
//	    mcpserver.WithName("reins"),
//	    mcpserver.WithVersion("1.0.0"),
//	); err != nil {
//	    log.Fatal(err)
//	}
//
// Three tools are registered: ai_chat, web_search, and usage_today.
// Every call they make runs through the governor, so MCP traffic is
// admitted, retried, and accounted exactly like library traffic.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/reins-ai/reins"
	"github.com/reins-ai/reins/client"
	"github.com/reins-ai/reins/usage"
)

// Client is the governed surface the server exposes as tools.
type Client interface {
	Chat(ctx context.Context, messages []reins.Message, opts ...reins.Option) (*reins.Response, error)
	Search(ctx context.Context, query string, opts ...reins.SearchOption) (*reins.SearchResults, error)
	UsageToday() usage.DayUsage
	UsageOn(date string) usage.DayUsage
}

var _ Client = (*client.Client)(nil)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// NewServer creates an MCP server whose tools call the given client.
func NewServer(c Client, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "reins-mcp",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	ts := &toolset{client: c}
	s.AddTool(chatTool(), ts.chat)
	s.AddTool(searchTool(), ts.search)
	s.AddTool(usageTool(), ts.usage)

	return s
}

// ServeStdio starts an MCP server that communicates over stdin/stdout.
// This is the standard transport for MCP servers invoked as subprocesses.
func ServeStdio(c Client, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(c, opts...))
}
