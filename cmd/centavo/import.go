package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lapazlabs/centavo/internal/common"
	"github.com/lapazlabs/centavo/internal/ingest"
	"github.com/lapazlabs/centavo/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions into the records database",
	}
	cmd.AddCommand(importCSVCmd())
	cmd.AddCommand(importOFXCmd())
	return cmd
}

func importCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "csv <file>...",
		Short: "Import transactions from CSV files",
		Long: `Import CSV files with columns date, amount, category, description.
Category may be empty for unlabeled transactions. Duplicates are
skipped by content hash, so re-importing the same file is safe.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args, func(path string) ([]model.Transaction, error) {
				f, err := os.Open(path)
				if err != nil {
					return nil, fmt.Errorf("failed to open %s: %w", path, err)
				}
				defer func() { _ = f.Close() }()
				return ingest.ParseCSV(f)
			})
		},
	}
}

func importOFXCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ofx <file>...",
		Short: "Import transactions from OFX/QFX bank exports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := ingest.NewOFXParser()
			return runImport(cmd, args, func(path string) ([]model.Transaction, error) {
				f, err := os.Open(path)
				if err != nil {
					return nil, fmt.Errorf("failed to open %s: %w", path, err)
				}
				defer func() { _ = f.Close() }()
				return parser.Parse(f)
			})
		},
	}
}

func runImport(cmd *cobra.Command, patterns []string, parse func(path string) ([]model.Transaction, error)) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			// Not a glob; let the open fail with a useful message.
			matches = []string{pattern}
		}
		files = append(files, matches...)
	}

	total := 0
	for _, file := range files {
		txns, err := parse(file)
		if err != nil {
			return common.NewUserError(fmt.Sprintf("could not import %s", file), err)
		}
		if err := store.SaveTransactions(ctx, txns); err != nil {
			return fmt.Errorf("failed to save transactions from %s: %w", file, err)
		}
		slog.Info("Imported file", "file", file, "transactions", len(txns))
		total += len(txns)
	}

	cmd.Printf("Imported %d transactions from %d file(s)\n", total, len(files))
	return nil
}
