// Command reins-mcp is an MCP server that exposes governed AI calls over
// stdio.
//
// MCP clients get three tools: ai_chat, web_search, and usage_today. Every
// call runs through the governor, so tool traffic is rate limited, retried,
// and accounted like any other caller of the library.
//
// Usage:
//
//	reins-mcp [-config reins.yaml]
//
// Configuration comes from the YAML file, a .env file, and environment
// variables (ANTHROPIC_API_KEY, OPENAI_API_KEY, GOOGLE_API_KEY,
// GOOGLE_SEARCH_KEY, GOOGLE_SEARCH_CX, AIPIPE_TOKEN, REINS_*).
//
// Configuration for Claude Desktop (~/Library/Application Support/Claude/claude_desktop_config.json):
//
//	{
//	    "mcpServers": {
//	        "reins": {
//	            "command": "reins-mcp",
//	            "args": ["-config", "/path/to/reins.yaml"],
//	            "env": {"ANTHROPIC_API_KEY": "sk-ant-..."}
//	        }
//	    }
//	}
package main

import (
	"context"
	"flag"
	"log"

	"github.com/reins-ai/reins/client"
	"github.com/reins-ai/reins/config"
	"github.com/reins-ai/reins/mcpserver"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	clientCfg, err := cfg.Build()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	c, err := client.New(context.Background(), clientCfg)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer c.Close()

	// Stdout carries the MCP protocol; the log package already writes
	// to stderr.
	if err := mcpserver.ServeStdio(c,
		mcpserver.WithName("reins"),
		mcpserver.WithVersion("1.0.0"),
	); err != nil {
		log.Fatal(err)
	}
}
