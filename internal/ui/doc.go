// Package ui implements interactive terminal interfaces using bubbletea's Elm architecture.
//
// [EntryModel] collects songs typed as "Title - Artist" when a listing yields nothing.
// Enter adds a line, an empty line finishes and esc cancels.
//
// [Model] drives the matching pipeline through these views:
//  1. [MatchView] : Monitor real-time search progress
//  2. [ResultView] : Browse match results and decide whether to create the playlist
//  3. [BuildView] : Monitor playlist creation
//  4. [DoneView] : Display the playlist link and unmatched songs
//
// Both models implement the standard Init/Update/View pattern, receiving messages via the [Msg] union type.
// Progress updates flow through a channel from the tasks package, providing non-blocking status reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
