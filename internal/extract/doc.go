// Package extract turns raw document text into [models.SongQuery] values.
//
// # Strategies
//
// [Extract] tries two pure strategies in order and returns the first non-empty result:
//
//  1. [IntervalStrategy] : every record spans [RecordSpan] lines, the first being the title.
//     The artist comes from an "Artistes:" line in the same window, cut at "Lyricist:".
//  2. [MarkerStrategy] : any line containing "Film:" holds a title before the marker;
//     the artist is read from the same line or the line right after it.
//
// When both come back empty the caller may fall back to [ManualEntry], which reads
// "Title - Artist" lines from an [InputSource]. That step is interactive and is never
// run implicitly by [Extract].
package extract
