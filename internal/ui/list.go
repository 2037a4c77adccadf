package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/setlist/internal/models"
)

var (
	_ list.Item = resultItem{}
)

// resultItem wraps [models.MatchResult] to implement [list.Item].
type resultItem struct {
	result models.MatchResult
}

func (i resultItem) FilterValue() string { return i.result.Query.Title }
func (i resultItem) Title() string {
	if i.result.Found {
		return fmt.Sprintf("✓ %s", i.result.Query.Title)
	}
	return fmt.Sprintf("✗ %s", i.result.Query.Title)
}
func (i resultItem) Description() string {
	if !i.result.Found {
		return i.result.FailureReason
	}
	desc := fmt.Sprintf("%s - %s", i.result.TrackName, i.result.ArtistName)
	if i.result.AlbumName != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.result.AlbumName)
	}
	return desc
}
