package main

import (
	"time"

	"github.com/spf13/cobra"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Analyze spending patterns over recent transactions",
		Long: `Patterns runs the trained pattern analyzer over stored transactions
and reports the overall spending profile, detected behaviors, unusual
days, and generated insights. Without a trained model it reports a
minimal result instead of failing.`,
		RunE: runPatterns,
	}
	cmd.Flags().Int("window", 90, "days of transaction history to analyze")
	return cmd
}

func runPatterns(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	eng, _, err := buildEngine(store)
	if err != nil {
		return err
	}

	window, _ := cmd.Flags().GetInt("window")
	from := time.Now().UTC().AddDate(0, 0, -window)
	txns, err := store.GetTransactions(ctx, &from, nil)
	if err != nil {
		return err
	}

	analysis, err := eng.AnalyzePatterns(ctx, txns)
	if err != nil {
		return err
	}

	cmd.Printf("Profile:   %s\n", analysis.PatternType)
	cmd.Printf("Stability: %.2f\n", analysis.StabilityScore)
	cmd.Printf("Unusual days: %d\n", analysis.UnusualDays)

	if len(analysis.Patterns) > 0 {
		cmd.Println("\nDetected patterns:")
		for _, p := range analysis.Patterns {
			cmd.Printf("  [%s] %s\n", p.Impact, p.Description)
		}
	}
	if len(analysis.Insights) > 0 {
		cmd.Println("\nInsights:")
		for _, in := range analysis.Insights {
			cmd.Printf("  %-7s %s: %s\n", in.Severity, in.Category, in.Message)
		}
	}
	return nil
}
