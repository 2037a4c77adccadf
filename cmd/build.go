package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
	"github.com/desertthunder/setlist/internal/ui"
	"github.com/urfave/cli/v3"
)

const tuiLogPath = "./tmp/setlist-tui.log"

// Build runs the whole pipeline: extract, match, then create the playlist from the matches.
//
// Nothing is created on Spotify when no song was matched.
func (r *Runner) Build(ctx context.Context, cmd *cli.Command) error {
	result, path, err := r.loadSongs(ctx, cmd, true)
	if err != nil {
		return err
	}
	if result.Empty() {
		return fmt.Errorf("%w in %s", shared.ErrNoSongs, path)
	}

	catalog, err := r.session(ctx)
	if err != nil {
		return err
	}

	public := r.config.Playlist.Public
	if cmd.IsSet("public") {
		public = cmd.Bool("public")
	}
	description := cmd.String("description")
	if description == "" {
		description = fmt.Sprintf("Songs from %s", filepath.Base(path))
	}

	if cmd.Bool("tui") {
		return r.buildTUI(ctx, cmd, catalog, result.Songs, public, description, path)
	}

	results := r.matchSongs(ctx, catalog, result.Songs)
	summary := tasks.Summarize(results)
	r.printSummary(summary)

	if err := r.writeBuildReport(cmd.String("report"), path, results); err != nil {
		return err
	}

	if summary.Found == 0 {
		r.writePlainln("✗ No songs were found on Spotify. Playlist not created.")
		return fmt.Errorf("%w: none of %d songs matched", shared.ErrTrackNotFound, summary.Total)
	}

	name, err := r.playlistName(cmd)
	if err != nil {
		return err
	}

	assembler := tasks.NewAssembler(catalog, public, shared.WithLogger(r.logger, "playlist", name))

	var outcome models.PlaylistOutcome
	r.withProgress(len(results)/tasks.BatchSize+3, func(progress chan<- tasks.ProgressUpdate) {
		outcome = assembler.WithProgress(progress).Assemble(ctx, results, name, description)
	})

	r.printOutcome(outcome)
	if !outcome.OK() {
		return fmt.Errorf("playlist build failed: %s", outcome.Message)
	}

	open := r.config.Playlist.OpenBrowser
	if cmd.IsSet("open") {
		open = cmd.Bool("open")
	}
	if open && outcome.PlaylistURL != "" {
		if err := shared.OpenBrowser(outcome.PlaylistURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
		}
	}
	return nil
}

// buildTUI hands matching and playlist creation to the interactive pipeline.
//
// Logs go to a file while the TUI owns the terminal.
func (r *Runner) buildTUI(ctx context.Context, cmd *cli.Command, catalog Catalog, songs []models.SongQuery, public bool, description, source string) error {
	name, err := r.playlistName(cmd)
	if err != nil {
		return err
	}

	fileLogger, err := shared.NewFileLogger(tuiLogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	matcher := tasks.NewMatcher(catalog, r.config.Search.Limit, fileLogger)
	assembler := tasks.NewAssembler(catalog, public, fileLogger)

	result, err := ui.RunPipeline(ctx, songs, matcher, assembler, ui.PipelineOptions{
		Name:        name,
		Description: description,
	})
	if err != nil {
		return err
	}

	if err := r.writeBuildReport(cmd.String("report"), source, result.Results); err != nil {
		return err
	}

	if result.Outcome == nil {
		r.printSummary(tasks.Summarize(result.Results))
		return r.writePlainln("Playlist not created.")
	}

	r.printOutcome(*result.Outcome)
	if !result.Outcome.OK() {
		return fmt.Errorf("playlist build failed: %s", result.Outcome.Message)
	}
	return nil
}

// playlistName takes --name or prompts for one.
func (r *Runner) playlistName(cmd *cli.Command) (string, error) {
	name := strings.TrimSpace(cmd.String("name"))
	if name != "" {
		return name, nil
	}

	name, err := r.prompt("\nEnter a name for your playlist: ")
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}
	return name, nil
}

// writeBuildReport writes a match report when --report is set, picking the format from the file extension.
func (r *Runner) writeBuildReport(reportPath, source string, results []models.MatchResult) error {
	if reportPath == "" {
		return nil
	}

	format, err := formatter.ParseFormat(strings.TrimPrefix(filepath.Ext(reportPath), "."))
	if err != nil {
		return err
	}

	written, err := formatter.WriteReport(formatter.NewReport(source, results), format, reportPath)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Report written to %s\n", written)
}

func (r *Runner) printOutcome(outcome models.PlaylistOutcome) {
	r.writePlain("\n")
	if outcome.OK() {
		r.writePlainHeader("Playlist Created!")
	} else {
		r.writePlainHeader("Playlist Failed")
	}

	r.writePlain("Name: %s\n", outcome.PlaylistName)
	r.writePlain("Tracks added: %d\n", outcome.TracksAdded)
	if outcome.PlaylistURL != "" {
		r.writePlain("URL: %s\n", outcome.PlaylistURL)
	}
	if outcome.Message != "" {
		r.writePlain("%s\n", outcome.Message)
	}

	if len(outcome.Unmatched) > 0 {
		r.writePlain("\nNot found on Spotify (%d):\n", len(outcome.Unmatched))
		for _, song := range outcome.Unmatched {
			r.writePlain("  - %s - %s\n", song.Title, song.Artist)
		}
	}
}
