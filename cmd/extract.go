package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/setlist/internal/extract"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
	"github.com/desertthunder/setlist/internal/ui"
	"github.com/urfave/cli/v3"
)

// extraction is the JSON shape printed by `setlist extract --json`.
type extraction struct {
	Source   string             `json:"source"`
	Strategy string             `json:"strategy"`
	Count    int                `json:"count"`
	Songs    []models.SongQuery `json:"songs"`
}

// Extract prints the songs found in the listing.
func (r *Runner) Extract(ctx context.Context, cmd *cli.Command) error {
	result, path, err := r.loadSongs(ctx, cmd, cmd.Bool("manual"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		songs := result.Songs
		if songs == nil {
			songs = []models.SongQuery{}
		}
		return r.writeJSON(extraction{
			Source:   path,
			Strategy: result.Strategy.String(),
			Count:    len(songs),
			Songs:    songs,
		}, cmd.Bool("pretty"))
	}

	if result.Empty() {
		return r.writePlain("No songs found in %s\n", path)
	}

	r.writePlain("%s\n\n", tasks.ExtractedUpdate(len(result.Songs), result.Strategy.String()).Message)
	for i, song := range result.Songs {
		r.writePlain("%3d. %s - %s\n", i+1, song.Title, song.Artist)
	}
	return nil
}

// loadSongs resolves the listing path, extracts songs from it and applies --limit.
//
// When nothing is recognised and manual is set, the operator is asked to type the songs in.
func (r *Runner) loadSongs(ctx context.Context, cmd *cli.Command, manual bool) (extract.Result, string, error) {
	path, err := r.pdfPath(cmd)
	if err != nil {
		return extract.Result{}, "", err
	}

	text, err := r.readText(path)
	if err != nil {
		return extract.Result{}, path, err
	}

	result := extract.Extract(text)
	r.logger.Info("extracted songs", "path", path, "count", len(result.Songs), "strategy", result.Strategy)

	if result.Empty() && manual {
		r.writePlain("Could not extract songs automatically from %s\n", path)
		songs, err := r.manualSongs(ctx, cmd.Bool("tui"))
		if err != nil {
			return extract.Result{}, path, err
		}
		result = extract.Result{Songs: songs, Strategy: extract.StrategyManual}
		if len(songs) == 0 {
			result.Strategy = extract.StrategyNone
		}
	}

	result.Songs = extract.Limit(result.Songs, cmd.Int("limit"))
	return result, path, nil
}

// pdfPath takes the listing path from the argument, then the config, then a prompt.
func (r *Runner) pdfPath(cmd *cli.Command) (string, error) {
	if path := cmd.StringArg("pdf"); path != "" {
		return path, nil
	}
	if r.config.Document.PDFPath != "" {
		return r.config.Document.PDFPath, nil
	}

	path, err := r.prompt("Enter the path to your PDF file: ")
	if err != nil {
		return "", err
	}
	// Paths dragged into a terminal arrive quoted.
	path = strings.Trim(path, `"'`)
	if path == "" {
		return "", fmt.Errorf("%w: no PDF path given", shared.ErrMissingArgument)
	}
	return path, nil
}

func (r *Runner) manualSongs(ctx context.Context, useTUI bool) ([]models.SongQuery, error) {
	if !useTUI {
		return extract.ManualEntry(r.lineSource(), r.output)
	}

	result, err := ui.RunManualEntry(ctx)
	if err != nil {
		return nil, err
	}
	if result.Cancelled {
		r.logger.Warn("manual entry cancelled", "entered", len(result.Songs))
	}
	return result.Songs, nil
}

// prompt writes label and reads one trimmed line. End of input yields "".
func (r *Runner) prompt(label string) (string, error) {
	r.writePlain("%s", label)
	line, err := r.lineSource().ReadLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
