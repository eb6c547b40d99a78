package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <description>",
		Short: "Predict spending categories for a transaction description",
		Long: `Classify predicts the most likely spending categories for a free-text
transaction description. Without a trained model it falls back to a
keyword table, so it always answers.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}
	cmd.Flags().Int("top", 3, "number of candidate categories to show")
	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
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

	topK, _ := cmd.Flags().GetInt("top")
	text := strings.Join(args, " ")

	pred, err := eng.Classify(ctx, text, topK)
	if err != nil {
		return err
	}

	cmd.Printf("%s\n", text)
	for _, p := range pred {
		cmd.Printf("  %-20s %.2f\n", p.Category, p.Confidence)
	}
	return nil
}
