package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/studyhub/internal/repositories"
	"github.com/desertthunder/studyhub/internal/shared"
	"github.com/desertthunder/studyhub/internal/ui"
	"github.com/urfave/cli/v3"
)

func (r *Runner) setupConfigPath() string {
	if r.configPath == "" {
		return "config.toml"
	}
	return r.configPath
}

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.setupConfigPath()
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	r.writePlain("%s %s\n", ui.Success("✓ Config written to"), path)
	return r.writePlain("%s\n", ui.Help("Set STUDYHUB_YOUTUBE_API_KEY or youtube.api_key before running 'studyhub shorts'."))
}

// SetupDatabase creates the config file if missing, then opens the sqlite store, which runs the migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := r.setupConfigPath()

	config := r.config
	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else if loaded, err := shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load created config, using defaults", "error", err)
		} else {
			config = loaded
		}
	}

	if config.Store.Backend != "" && config.Store.Backend != shared.BackendSQLite {
		r.logger.Warn("store backend is not sqlite, migrating the sqlite database anyway", "backend", config.Store.Backend)
	}

	r.logger.Info("initializing database", "path", config.Database.Path)
	store, err := repositories.OpenSQLite(ctx, config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer store.Close()

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writePlain("%s %s\n", ui.Success("✓ Database ready at"), config.Database.Path)
}
