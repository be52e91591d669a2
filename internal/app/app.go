// Package app wires configuration, logging and the Store together for the
// command-line and terminal frontends.
package app

import (
	"fmt"
	"time"

	"github.com/xolan/lookback/internal/config"
	"github.com/xolan/lookback/internal/logging"
	"github.com/xolan/lookback/internal/storage"
	"github.com/xolan/lookback/internal/store"
	"go.uber.org/zap"
)

// App holds everything a frontend needs
type App struct {
	Config     config.Config
	ConfigPath string
	Location   *time.Location
	Logger     *zap.Logger
	Store      *store.Store
}

// Options override the default locations. Empty fields use defaults.
type Options struct {
	ConfigPath string
	DataDir    string
}

// LoadConfig resolves the config file path and loads it (a missing file
// yields defaults). opts.DataDir overrides the configured data_dir.
func LoadConfig(opts Options) (config.Config, string, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			return config.Config{}, "", err
		}
		configPath = p
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return config.Config{}, "", err
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	return cfg, configPath, nil
}

// New loads the config file (optional), builds the logger and opens the
// Store.
func New(opts Options) (*App, error) {
	cfg, configPath, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}

	a, err := NewWithConfig(cfg, configPath, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return a, nil
}

// NewWithConfig opens the Store described by cfg (useful for testing).
// A nil logger discards output.
func NewWithConfig(cfg config.Config, configPath string, logger *zap.Logger, opts ...store.Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	storagePath, err := storage.GetStoragePathIn(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	storeOpts := []store.Option{
		store.WithLogger(logger),
		store.WithBackups(cfg.BackupCount),
		store.WithSeeding(cfg.SeedSamples),
	}
	storeOpts = append(storeOpts, opts...)

	logger.Debug("opening journal",
		zap.String("path", storagePath),
		zap.String("config", configPath),
		zap.Int("backups", cfg.BackupCount))

	return &App{
		Config:     cfg,
		ConfigPath: configPath,
		Location:   loc,
		Logger:     logger,
		Store:      store.New(storagePath, storeOpts...),
	}, nil
}

// StoragePath returns the backing file path.
func (a *App) StoragePath() string {
	return a.Store.Path()
}

// Close flushes buffered log output.
func (a *App) Close() {
	_ = a.Logger.Sync()
}
