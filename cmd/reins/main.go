// Command reins is a CLI for governed AI calls: chat with a model, search
// the web, and report what the day's calls consumed.
//
// Usage:
//
//	reins chat "explain sliding windows" -m claude-haiku-4-5
//	reins search "go sliding window rate limiter" -n 5
//	reins report
//	reins report --date 2026-08-21
//	reins report --all
//
// Configuration comes from a YAML file (-c), a .env file, and environment
// variables (ANTHROPIC_API_KEY, OPENAI_API_KEY, GOOGLE_API_KEY,
// GOOGLE_SEARCH_KEY, GOOGLE_SEARCH_CX, AIPIPE_TOKEN, REINS_*). Results
// print to stdout; logs go to stderr as JSON.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/reins-ai/reins/client"
	"github.com/reins-ai/reins/config"
	"github.com/reins-ai/reins/govern"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "reins",
		Short: "Governed AI calls from the command line",
		Long: `reins sends chat and search requests through a call governor:
a sliding-window rate limit per provider/model, linear-backoff retries on
transient failures, and a per-day usage ledger of tokens, USD cost, and
request counts.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (YAML)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newReportCmd())

	return rootCmd
}

// newClient loads configuration, sets up logging, and builds the governed
// client. The caller owns the returned client and must Close it.
func newClient(cmd *cobra.Command) (*client.Client, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel == "" {
		logLevel = cfg.Logging.Level
	}
	setupLogging(logLevel)

	clientCfg, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	// At debug level, stream governor events to the log: admissions,
	// attempts, completions, and ledger writes.
	if logLevel == "debug" {
		events := make(chan govern.Event, 64)
		go logEvents(events)
		clientCfg.Events = events
	}

	c, err := client.New(cmd.Context(), clientCfg)
	if err != nil {
		clientCfg.Store.Close()
		return nil, err
	}
	return c, nil
}

func setupLogging(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(logger)
}

func logEvents(events <-chan govern.Event) {
	for e := range events {
		attrs := []any{
			"type", string(e.Type),
			"key", e.Key,
			"request_id", e.RequestID,
		}
		if e.Duration > 0 {
			attrs = append(attrs, "duration", e.Duration.String())
		}
		if e.Usage != nil {
			attrs = append(attrs, "tokens", e.Usage.Tokens, "cost", e.Usage.Cost)
		}
		if e.Error != nil {
			attrs = append(attrs, "error", e.Error.Error())
		}
		slog.Debug("governor event", attrs...)
	}
}
