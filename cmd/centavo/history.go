package main

import (
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently recorded model outputs",
	}

	var limit int
	cmd.PersistentFlags().IntVar(&limit, "limit", 20, "maximum records to show")

	cmd.AddCommand(&cobra.Command{
		Use:   "predictions",
		Short: "Show recent classification results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			recs, err := store.GetRecentPredictions(ctx, limit)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				cmd.Printf("%s  %-20s %.2f  %s\n",
					rec.CreatedAt.Format("2006-01-02 15:04"), rec.Category, rec.Confidence, rec.InputText)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "forecasts",
		Short: "Show recently stored forecast points",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			recs, err := store.GetRecentForecasts(ctx, limit)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				cmd.Printf("%s  %8.2f  [%8.2f, %8.2f]  %s\n",
					rec.Date.Format("2006-01-02"), rec.PredictedAmount, rec.LowerBound, rec.UpperBound, rec.ModelKind)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "patterns",
		Short: "Show recent pattern analyses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			recs, err := store.GetRecentPatternAnalyses(ctx, limit)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				cmd.Printf("%s  %-20s stability %.2f  unusual days %d\n",
					rec.CreatedAt.Format("2006-01-02 15:04"), rec.PatternType, rec.StabilityScore, rec.UnusualDays)
			}
			return nil
		},
	})

	return cmd
}
