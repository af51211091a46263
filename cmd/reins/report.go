package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/reins-ai/reins/usage"
)

func newReportCmd() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Report usage recorded in the ledger",
		Long: `Report API usage recorded in the ledger: tokens, USD cost, and
request counts per provider and model. Days split at UTC midnight.

Example:
  reins report
  reins report --date 2026-08-21
  reins report --all`,
		Args: cobra.NoArgs,
		RunE: runReport,
	}

	reportCmd.Flags().String("date", "", "Ledger date in YYYY-MM-DD form (default: today)")
	reportCmd.Flags().Bool("all", false, "Report every recorded day")

	return reportCmd
}

func runReport(cmd *cobra.Command, args []string) error {
	date, err := cmd.Flags().GetString("date")
	if err != nil {
		return fmt.Errorf("failed to get date flag: %w", err)
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
		}
	}

	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	if all {
		ledger := c.UsageAll()
		if len(ledger) == 0 {
			fmt.Println("No usage recorded.")
			return nil
		}
		dates := make([]string, 0, len(ledger))
		for d := range ledger {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		for i, d := range dates {
			if i > 0 {
				fmt.Println()
			}
			printDay(d, ledger[d])
		}
		return nil
	}

	day := c.UsageToday()
	key := usage.DateKey(time.Now())
	if date != "" {
		day = c.UsageOn(date)
		key = date
	}
	printDay(key, day)
	return nil
}

func printDay(date string, day usage.DayUsage) {
	fmt.Println(date)
	if len(day) == 0 {
		fmt.Println("  no usage recorded")
		return
	}

	providers := make([]string, 0, len(day))
	for p := range day {
		providers = append(providers, p)
	}
	sort.Strings(providers)

	var total usage.Record
	for _, p := range providers {
		models := make([]string, 0, len(day[p]))
		for m := range day[p] {
			models = append(models, m)
		}
		sort.Strings(models)

		for _, m := range models {
			rec := day[p][m]
			fmt.Printf("  %-40s %8d tokens  $%9.4f  %4d requests\n",
				p+"/"+m, rec.Tokens, rec.Cost, rec.Requests)
			total.Tokens += rec.Tokens
			total.Cost += rec.Cost
			total.Requests += rec.Requests
		}
	}
	fmt.Printf("  %-40s %8d tokens  $%9.4f  %4d requests\n",
		"total", total.Tokens, total.Cost, total.Requests)
}
