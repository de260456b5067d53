package cmd

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ziadkadry99/opsdash/internal/activity"
	"github.com/ziadkadry99/opsdash/internal/assistant"
	"github.com/ziadkadry99/opsdash/internal/config"
	"github.com/ziadkadry99/opsdash/internal/db"
	"github.com/ziadkadry99/opsdash/internal/logging"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `opsdash init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger from config and the --verbose flag.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(logging.Options{
		Level:   string(cfg.LogLevel),
		Verbose: verbose,
		File:    cfg.LogFile,
	})
}

// openDatabase opens the sqlite database under the configured data dir.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	database, err := db.Open(filepath.Join(cfg.DataDir, "opsdash.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}

// assistantOptions maps the assistant config section onto session options.
func assistantOptions(cfg *config.Config, rec activity.Recorder, logger *zap.Logger) assistant.Options {
	return assistant.Options{
		Pacing:    cfg.Assistant.Pacing,
		Supersede: cfg.Assistant.Supersede,
		Recorder:  rec,
		Logger:    logger,
	}
}
