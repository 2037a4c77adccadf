// Package tasks turns extracted song queries into a Spotify playlist with real-time progress reporting.
//
// # Matching
//
// [Matcher.MatchAll] resolves each [models.SongQuery] to exactly one [models.MatchResult], in input order.
// Each query escalates through three search strategies and stops at the first one that yields a track:
//
//  1. exact : "track:<title> artist:<artist>", skipped when the artist is empty
//  2. title : "track:<title>"
//  3. fuzzy : free-text search on [CleanTitle], candidates ranked by [Score]
//
// Fuzzy candidates are accepted only when the best score exceeds [MatchThreshold].
// Ties go to the first candidate returned by the catalog.
//
// A search failure in one strategy falls through to the next. When every strategy fails or
// comes back empty the query gets a not-found result and the scan moves on.
//
// # Cancellation
//
// The scan checks its context before every query. On cancellation it stops issuing requests
// and returns the results gathered so far, without an error.
//
// # Assembly
//
// [Assembler.Assemble] creates the playlist and adds matched tracks in batches of at most [BatchSize],
// sequentially and in order. Remote failures are reported in the returned [models.PlaylistOutcome].
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
