package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lapazlabs/centavo/internal/charts"
)

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast future daily or monthly expenses",
		Long: `Forecast projects future spending from the trained expense model.
By default it prints a daily forecast; --months switches to calendar
month totals with a trend direction.`,
		RunE: runForecast,
	}
	cmd.Flags().Int("days", 30, "days ahead to forecast")
	cmd.Flags().Int("months", 0, "forecast by calendar month instead of by day")
	cmd.Flags().String("category", "", "restrict the forecast to one category")
	cmd.Flags().String("chart", "", "write a PNG chart of the daily forecast to this path")
	return cmd
}

func runForecast(cmd *cobra.Command, _ []string) error {
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

	months, _ := cmd.Flags().GetInt("months")
	if months > 0 {
		forecasts, err := eng.ForecastByMonth(ctx, months)
		if err != nil {
			return err
		}
		for _, mf := range forecasts {
			cmd.Printf("%04d-%02d  %10.2f  [%10.2f, %10.2f]  conf %.2f  trend %s\n",
				mf.Year, mf.Month, mf.PredictedAmount, mf.LowerBound, mf.UpperBound, mf.Confidence, mf.Trend)
		}
		return nil
	}

	days, _ := cmd.Flags().GetInt("days")
	category, _ := cmd.Flags().GetString("category")

	points, err := eng.Forecast(ctx, days, category)
	if err != nil {
		return err
	}

	for _, p := range points {
		cmd.Printf("%s  %8.2f  [%8.2f, %8.2f]  conf %.2f\n",
			p.Date.Format("2006-01-02"), p.PredictedAmount, p.LowerBound, p.UpperBound, p.Confidence)
	}

	chartPath, _ := cmd.Flags().GetString("chart")
	if chartPath != "" {
		png, err := charts.RenderForecast(points)
		if err != nil {
			return fmt.Errorf("failed to render chart: %w", err)
		}
		if err := os.WriteFile(chartPath, png, 0o644); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
		cmd.Printf("Chart written to %s\n", chartPath)
	}
	return nil
}
