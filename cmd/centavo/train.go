package main

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/lapazlabs/centavo/internal/engine"
	"github.com/lapazlabs/centavo/internal/model"
	"github.com/lapazlabs/centavo/internal/service"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train [classifier|forecaster|patterns|all]",
		Short: "Train models from stored transactions",
		Long: `Train rebuilds one model (or all three) from the transactions in the
records database and persists the refreshed artifact. The classifier
trains on labeled transactions only; the forecaster and pattern
analyzer use the full history.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"classifier", "forecaster", "patterns", "all"},
		RunE:      runTrain,
	}
	cmd.Flags().Int("epochs", 0, "training epochs for the pattern analyzer (default from config)")
	return cmd
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	eng, an, err := buildEngine(store)
	if err != nil {
		return err
	}

	epochs, _ := cmd.Flags().GetInt("epochs")
	if epochs <= 0 {
		epochs = viper.GetInt("training.epochs")
	}

	target := args[0]
	if target == "all" {
		return trainAll(ctx, cmd, eng, store, epochs)
	}

	switch target {
	case "classifier":
		txns, err := store.GetLabeledTransactions(ctx)
		if err != nil {
			return err
		}
		report, err := eng.TrainClassifier(ctx, txns)
		if err != nil {
			return fmt.Errorf("classifier training failed: %w", err)
		}
		printReport(cmd, "classifier", report)
	case "forecaster":
		txns, err := store.GetTransactions(ctx, nil, nil)
		if err != nil {
			return err
		}
		report, err := eng.TrainForecaster(ctx, txns)
		if err != nil {
			return fmt.Errorf("forecaster training failed: %w", err)
		}
		printReport(cmd, "forecaster", report)
	case "patterns":
		txns, err := store.GetTransactions(ctx, nil, nil)
		if err != nil {
			return err
		}
		bar := progressbar.NewOptions(epochs,
			progressbar.OptionSetDescription("Training pattern analyzer"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		an.Progress = func(done, _ int) { _ = bar.Set(done) }
		report, err := eng.TrainAnalyzer(ctx, txns, epochs)
		an.Progress = nil
		_ = bar.Finish()
		if err != nil {
			return fmt.Errorf("pattern training failed: %w", err)
		}
		printReport(cmd, "patterns", report)
	default:
		return fmt.Errorf("unknown model %q", target)
	}

	return nil
}

// trainAll runs the three trainings concurrently. Each model has its own
// lock and artifact, so the only shared resource is the read-side of
// storage.
func trainAll(ctx context.Context, cmd *cobra.Command, eng *engine.InsightEngine, store service.Storage, epochs int) error {
	labeled, err := store.GetLabeledTransactions(ctx)
	if err != nil {
		return err
	}
	all, err := store.GetTransactions(ctx, nil, nil)
	if err != nil {
		return err
	}

	var clsReport, fcReport, anReport *model.TrainingReport
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		clsReport, err = eng.TrainClassifier(gctx, labeled)
		return err
	})
	g.Go(func() error {
		var err error
		fcReport, err = eng.TrainForecaster(gctx, all)
		return err
	})
	g.Go(func() error {
		var err error
		anReport, err = eng.TrainAnalyzer(gctx, all, epochs)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	printReport(cmd, "classifier", clsReport)
	printReport(cmd, "forecaster", fcReport)
	printReport(cmd, "patterns", anReport)
	return nil
}

func printReport(cmd *cobra.Command, name string, report *model.TrainingReport) {
	if report.Status == model.StatusError {
		cmd.Printf("%s: training error: %s\n", name, report.Error)
		return
	}

	cmd.Printf("%s: trained on %d samples", name, report.SampleCount)
	switch name {
	case "classifier":
		cmd.Printf(", %d categories, accuracy %.2f", report.CategoryCount, report.Accuracy)
	case "forecaster":
		cmd.Printf(", model %s, MAE %.2f, RMSE %.2f", report.ModelKind, report.MAE, report.RMSE)
	case "patterns":
		cmd.Printf(", %d epochs, loss %.4f, val %.4f", report.EpochsTrained, report.Loss, report.ValLoss)
	}
	cmd.Println()
}
