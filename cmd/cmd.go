// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func pdfArg() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "pdf", UsageText: "path to the PDF song listing"}}
}

// setupCommand writes a config file from the embedded template.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml from the template",
		Action: r.Setup,
	}
}

// authCommand runs the Spotify OAuth2 flow and saves the token.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authenticate with Spotify using OAuth2",
		Action: r.Auth,
	}
}

// extractCommand prints the songs found in a PDF.
func extractCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract song titles and artists from a PDF",
		Arguments: pdfArg(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of songs to keep (0 keeps all)",
			},
			&cli.BoolFlag{
				Name:  "manual",
				Usage: "Prompt for songs when none can be extracted",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Use the interactive prompt for manual entry",
			},
		},
		Action: r.Extract,
	}
}

// matchCommand extracts songs and searches Spotify for each, without creating a playlist.
func matchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "Search Spotify for every extracted song and report matches",
		Arguments: pdfArg(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format (json, csv, markdown, txt)",
				Value:   "txt",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the report to a file instead of stdout",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of songs to search for (0 searches all)",
			},
			&cli.BoolFlag{
				Name:  "manual",
				Usage: "Prompt for songs when none can be extracted",
			},
		},
		Action: r.Match,
	}
}

// buildCommand runs the full pipeline and creates the playlist.
func buildCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Create a Spotify playlist from a PDF song listing",
		Arguments: pdfArg(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Playlist name (prompted when empty)",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Playlist description",
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Make the playlist public (defaults to playlist.public)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the playlist in the browser (defaults to playlist.open_browser)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of songs to search for (0 searches all)",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Also write a match report to this path (format from extension)",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Run matching and playlist creation in the interactive UI",
			},
		},
		Action: r.Build,
	}
}
