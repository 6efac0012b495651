package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/aharlow/nowbar/internal/shared"
)

// Setup initializes the configuration file and the token store database.
//
// Seeds the store with the refresh token from the config when one is present,
// so a token obtained elsewhere (e.g. an existing deployment) works without
// re-running the browser flow.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing token store", "path", config.Database.Path)

	db, store, err := r.openTokenStore(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if config.Credentials.Spotify.RefreshToken != "" {
		existing, err := store.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to read token store: %w", err)
		}
		if existing == nil {
			seed := &oauth2.Token{
				AccessToken:  config.Credentials.Spotify.AccessToken,
				RefreshToken: config.Credentials.Spotify.RefreshToken,
			}
			if err := store.Save(ctx, seed); err != nil {
				return fmt.Errorf("failed to seed token store: %w", err)
			}
			r.logger.Info("token store seeded from config")
		}
	}

	r.writePlain("✓ Setup complete\n")
	r.writePlain("Config: %s\n", configPath)
	r.writePlain("Token store: %s\n", config.Database.Path)
	if config.Credentials.Spotify.ClientID == "" {
		r.writePlainln("Add your Spotify client_id and client_secret to the config, then run 'nowbar auth'.")
	}

	return nil
}
