package tasks

import (
	"fmt"

	"github.com/desertthunder/setlist/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ExtractSongs Phase = iota
	SearchTracks
	CreatePlaylist
	AddTracks
)

func (p Phase) String() string {
	switch p {
	case ExtractSongs:
		return "extract_songs"
	case SearchTracks:
		return "search_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
		// Channel full, skip this update
	}
}

// ExtractedUpdate reports the outcome of reading a song listing.
func ExtractedUpdate(count int, strategy string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractSongs,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Extracted %d songs (%s)", count, strategy),
	}
}

func searchTracksUpdate(step, total int, q *models.SongQuery) ProgressUpdate {
	if q == nil {
		return ProgressUpdate{
			Phase:   SearchTracks,
			Step:    step,
			Total:   total,
			Message: "Searching for tracks on Spotify...",
		}
	}
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, q.Title, q.Artist),
	}
}

func matchedTrackUpdate(step, total int, r *models.MatchResult) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✓ %s - %s", step, total, r.TrackName, r.ArtistName)
	if !r.Found {
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, r.Query.Title, r.FailureReason)
	}
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    r,
	}
}

func createPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Creating playlist %q on Spotify...", name),
	}
}

func createdPlaylistUpdate(step, total int, pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func addTracksUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Adding %d tracks...", step, total, count),
	}
}
