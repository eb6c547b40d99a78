package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/lapazlabs/centavo/internal/analyzer"
	"github.com/lapazlabs/centavo/internal/classifier"
	"github.com/lapazlabs/centavo/internal/common"
	"github.com/lapazlabs/centavo/internal/config"
	"github.com/lapazlabs/centavo/internal/engine"
	"github.com/lapazlabs/centavo/internal/forecaster"
	"github.com/lapazlabs/centavo/internal/storage"
)

// openStorage creates the data directory if needed and opens the records
// database with its migrations applied. Callers own the returned storage.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dataDir := config.ExpandPath(viper.GetString("data.dir"))
	if dataDir == "" {
		return nil, fmt.Errorf("%w: data.dir is not set", common.ErrMissingConfig)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(filepath.Join(dataDir, "centavo.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate storage: %w", err)
	}
	return store, nil
}

// buildEngine assembles the insight engine from the configured data
// directory. Each model loads its persisted artifact if one exists.
func buildEngine(store *storage.SQLiteStorage) (*engine.InsightEngine, *analyzer.Analyzer, error) {
	dataDir := config.ExpandPath(viper.GetString("data.dir"))
	modelDir := filepath.Join(dataDir, "models")
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create model directory: %w", err)
	}

	cls := classifier.New(filepath.Join(modelDir, "classifier.json"))
	fc := forecaster.New(filepath.Join(modelDir, "forecaster.json"))
	an := analyzer.New(filepath.Join(modelDir, "patterns.json"))

	eng := engine.NewWithConfig(store, cls, fc, an, engine.Config{
		ModelVersion: viper.GetString("model.version"),
	})
	return eng, an, nil
}
