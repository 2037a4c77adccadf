package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgMatchComplete
	MsgBuildComplete
)

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// matchCompleteMsg is the constructor for [MsgMatchComplete]
func matchCompleteMsg(results []models.MatchResult) Msg {
	return Msg{kind: MsgMatchComplete, data: results}
}

// buildCompleteMsg is the constructor for [MsgBuildComplete]
func buildCompleteMsg(outcome models.PlaylistOutcome) Msg {
	return Msg{kind: MsgBuildComplete, data: outcome}
}
