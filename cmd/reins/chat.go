package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reins-ai/reins"
)

func newChatCmd() *cobra.Command {
	chatCmd := &cobra.Command{
		Use:   "chat [prompt]",
		Short: "Send a prompt to an AI chat model",
		Long: `Send a prompt to an AI chat model and print the reply.

The call is admitted against the model's rate limit, retried on transient
failures, and recorded in the usage ledger.

Example:
  reins chat "explain sliding windows"
  reins chat -m claude-haiku-4-5 -s "answer in one sentence" "what is backoff?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runChat,
	}

	chatCmd.Flags().StringP("model", "m", "", "Model id (default: the configured default chat model)")
	chatCmd.Flags().StringP("system", "s", "", "System prompt")
	chatCmd.Flags().Float64P("temperature", "t", 0, "Sampling temperature (0.0 to 2.0)")
	chatCmd.Flags().Int("max-tokens", 0, "Maximum number of tokens to generate")

	return chatCmd
}

func runChat(cmd *cobra.Command, args []string) error {
	prompt := strings.Join(args, " ")

	modelID, err := cmd.Flags().GetString("model")
	if err != nil {
		return fmt.Errorf("failed to get model flag: %w", err)
	}
	system, err := cmd.Flags().GetString("system")
	if err != nil {
		return fmt.Errorf("failed to get system flag: %w", err)
	}
	temperature, err := cmd.Flags().GetFloat64("temperature")
	if err != nil {
		return fmt.Errorf("failed to get temperature flag: %w", err)
	}
	maxTokens, err := cmd.Flags().GetInt("max-tokens")
	if err != nil {
		return fmt.Errorf("failed to get max-tokens flag: %w", err)
	}

	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	var opts []reins.Option
	if modelID != "" {
		opts = append(opts, reins.WithModel(modelID))
	}
	if system != "" {
		opts = append(opts, reins.WithSystem(system))
	}
	if temperature > 0 {
		opts = append(opts, reins.WithTemperature(temperature))
	}
	if maxTokens > 0 {
		opts = append(opts, reins.WithMaxTokens(maxTokens))
	}

	messages := []reins.Message{{Role: reins.RoleUser, Content: prompt}}
	resp, err := c.Chat(cmd.Context(), messages, opts...)
	if err != nil {
		return err
	}

	slog.Info("chat complete",
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"finish_reason", resp.FinishReason,
	)

	fmt.Println(resp.Content)
	return nil
}
