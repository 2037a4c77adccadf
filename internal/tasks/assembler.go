package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist/internal/models"
)

// BatchSize is the most track IDs sent in one add-tracks call.
const BatchSize = 100

// PlaylistClient is the playlist capability the [Assembler] depends on.
type PlaylistClient interface {
	CurrentUserID(ctx context.Context) (string, error)
	CreatePlaylist(ctx context.Context, ownerID, name string, public bool, description string) (*models.Playlist, error)
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error
}

// Assembler creates a playlist from match results.
type Assembler struct {
	client   PlaylistClient
	public   bool
	logger   *log.Logger
	progress chan<- ProgressUpdate
}

// NewAssembler creates an [Assembler]. Playlists are created public only when public is set.
func NewAssembler(client PlaylistClient, public bool, logger *log.Logger) *Assembler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Assembler{client: client, public: public, logger: logger}
}

// WithProgress sets the channel that receives progress updates.
func (a *Assembler) WithProgress(progress chan<- ProgressUpdate) *Assembler {
	a.progress = progress
	return a
}

// Assemble creates the playlist named name and adds every found track in result order.
//
// Failures from the catalog produce an outcome with [models.StatusError] and a message.
// If the playlist was created before the failure, its ID and URL are still reported.
func (a *Assembler) Assemble(ctx context.Context, results []models.MatchResult, name, description string) models.PlaylistOutcome {
	ids, unmatched := Partition(results)
	outcome := models.PlaylistOutcome{PlaylistName: name, Unmatched: unmatched}

	sendProgress(a.progress, createPlaylistUpdate(1, 2, name))

	ownerID, err := a.client.CurrentUserID(ctx)
	if err != nil {
		return a.fail(outcome, fmt.Errorf("failed to fetch current user: %w", err))
	}

	pl, err := a.client.CreatePlaylist(ctx, ownerID, name, a.public, description)
	if err != nil {
		return a.fail(outcome, fmt.Errorf("failed to create playlist: %w", err))
	}

	outcome.PlaylistID = pl.ID
	outcome.PlaylistURL = pl.ExternalURL
	sendProgress(a.progress, createdPlaylistUpdate(2, 2, pl))
	a.logger.Info("created playlist", "name", pl.Name, "id", pl.ID)

	batches := Batches(ids, BatchSize)
	for i, batch := range batches {
		sendProgress(a.progress, addTracksUpdate(i+1, len(batches), len(batch)))

		if err := a.client.AddTracks(ctx, pl.ID, batch); err != nil {
			return a.fail(outcome, fmt.Errorf("failed to add tracks (batch %d/%d): %w", i+1, len(batches), err))
		}
		outcome.TracksAdded += len(batch)
		a.logger.Debug("added batch", "batch", i+1, "tracks", len(batch))
	}

	outcome.Status = models.StatusSuccess
	outcome.Message = fmt.Sprintf("Created playlist with %d tracks", outcome.TracksAdded)
	return outcome
}

func (a *Assembler) fail(outcome models.PlaylistOutcome, err error) models.PlaylistOutcome {
	a.logger.Error("playlist assembly failed", "error", err)
	outcome.Status = models.StatusError
	outcome.Message = err.Error()
	return outcome
}

// Partition splits results into found track IDs and unmatched queries, both in result order.
func Partition(results []models.MatchResult) ([]string, []models.SongQuery) {
	ids := make([]string, 0, len(results))
	unmatched := make([]models.SongQuery, 0)
	for _, r := range results {
		if r.Found {
			ids = append(ids, r.TrackID)
		} else {
			unmatched = append(unmatched, r.Query)
		}
	}
	return ids, unmatched
}

// Batches splits ids into consecutive chunks of at most size elements.
func Batches(ids []string, size int) [][]string {
	if size <= 0 {
		size = BatchSize
	}

	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}
	return batches
}
