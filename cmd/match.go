package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/desertthunder/setlist/internal/formatter"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Match searches Spotify for every extracted song and renders a report.
func (r *Runner) Match(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	result, path, err := r.loadSongs(ctx, cmd, cmd.Bool("manual"))
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

	results := r.matchSongs(ctx, catalog, result.Songs)
	report := formatter.NewReport(path, results)

	if output := cmd.String("output"); output != "" {
		written, err := formatter.WriteReport(report, format, output)
		if err != nil {
			return err
		}
		r.printSummary(report.Summary)
		return r.writePlain("✓ Report written to %s\n", written)
	}

	data, err := formatter.Render(report, format)
	if err != nil {
		return err
	}
	r.writePlain("\n")
	_, err = r.output.Write(data)
	return err
}

// matchSongs runs the matcher with progress printed to the output.
//
// An interrupt stops the scan only; the results gathered so far are returned.
func (r *Runner) matchSongs(ctx context.Context, catalog Catalog, songs []models.SongQuery) []models.MatchResult {
	scanCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	matcher := tasks.NewMatcher(catalog, r.config.Search.Limit, r.logger)

	var results []models.MatchResult
	r.withProgress(2*len(songs)+1, func(progress chan<- tasks.ProgressUpdate) {
		results = matcher.MatchAll(scanCtx, songs, progress)
	})

	if scanCtx.Err() != nil && ctx.Err() == nil {
		r.writePlainln("⚠ Search interrupted: continuing with %d of %d songs", len(results), len(songs))
	}
	return results
}

// withProgress runs fn with a channel whose updates are printed until fn returns.
//
// size should cover every update fn sends; updates beyond it are dropped.
func (r *Runner) withProgress(size int, fn func(chan<- tasks.ProgressUpdate)) {
	progress := make(chan tasks.ProgressUpdate, size)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.printProgress(update)
		}
	}()

	fn(progress)
	close(progress)
	<-done
}

func (r *Runner) printProgress(update tasks.ProgressUpdate) {
	switch update.Phase {
	case tasks.SearchTracks:
		if update.Step == 0 {
			r.writePlain("\n🔍 %s\n", update.Message)
		} else if update.Data != nil {
			r.writePlain("   %s\n", update.Message)
		}
	case tasks.CreatePlaylist:
		r.writePlain("\n📝 %s\n", update.Message)
	case tasks.AddTracks:
		r.writePlain("   %s\n", update.Message)
	default:
		r.writePlain("📥 %s\n", update.Message)
	}
}

func (r *Runner) printSummary(summary tasks.Summary) {
	r.writePlain("\n")
	r.writePlainHeader("Search Results")
	r.writePlain("Found: %d of %d songs (%.1f%%)\n", summary.Found, summary.Total, summary.Percentage)
	r.writePlain("Not found: %d\n", summary.NotFound)
}
