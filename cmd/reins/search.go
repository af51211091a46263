package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reins-ai/reins"
)

func newSearchCmd() *cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the web with Google Custom Search",
		Long: `Run a web search through Google Custom Search and print the results.

Queries are admitted against the search rate limit and charged to the
usage ledger at the per-query rate.

Example:
  reins search "go sliding window rate limiter"
  reins search -n 3 "linear backoff"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}

	searchCmd.Flags().IntP("num", "n", 0, "Number of results to return, 1 to 10")

	return searchCmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	num, err := cmd.Flags().GetInt("num")
	if err != nil {
		return fmt.Errorf("failed to get num flag: %w", err)
	}

	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	var opts []reins.SearchOption
	if num > 0 {
		opts = append(opts, reins.WithNum(num))
	}

	results, err := c.Search(cmd.Context(), query, opts...)
	if err != nil {
		return err
	}

	if len(results.Items) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, item := range results.Items {
		fmt.Printf("%d. %s\n   %s\n", i+1, item.Title, item.Link)
		if item.Snippet != "" {
			fmt.Printf("   %s\n", item.Snippet)
		}
	}
	fmt.Printf("\nAbout %d results.\n", results.TotalResults)

	return nil
}
