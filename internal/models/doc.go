// Package models defines the data passed between the setlist pipeline stages.
//
// The pipeline is append-only: each stage produces a new slice and never mutates what it received.
//
//   - [SongQuery] : a (title, artist) pair pulled out of a document or typed by the operator
//   - [CandidateTrack] : a catalog search hit that has not been accepted yet
//   - [MatchResult] : one per [SongQuery], either a found track or a failure reason
//   - [Playlist] : a playlist created on the remote catalog
//   - [PlaylistOutcome] : the terminal artifact of a build run
package models
