package main

import (
	"context"
	"os"

	"github.com/desertthunder/setlist/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes config.toml from the embedded template, leaving an existing file untouched.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	if _, err := os.Stat(r.configPath); err == nil {
		r.logger.Info("config file already exists", "path", r.configPath)
		return r.writePlain("✓ Config already exists at %s\n", r.configPath)
	}

	r.logger.Info("config file not found, creating from template", "path", r.configPath)
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	config, err := shared.LoadConfig(r.configPath)
	if err != nil {
		return err
	}
	r.config = config

	r.writePlain("✓ Config written to %s\n", r.configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Create an app at https://developer.spotify.com/dashboard\n")
	r.writePlain("2. Add %s as a redirect URI\n", config.Credentials.Spotify.RedirectURI)
	r.writePlain("3. Set client_id and client_secret in %s\n", r.configPath)
	r.writePlain("4. Run 'setlist auth'\n")
	return nil
}
