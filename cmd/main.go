package main

import (
	"context"
	"os"

	"github.com/desertthunder/setlist/internal/shared"
	"github.com/urfave/cli/v3"
)

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "setlist",
		Usage:   "Turn a PDF song listing into a Spotify playlist",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
