package tasks

import "github.com/desertthunder/setlist/internal/models"

// Summary counts match results.
type Summary struct {
	Total      int     `json:"total"`
	Found      int     `json:"found"`
	NotFound   int     `json:"not_found"`
	Percentage float64 `json:"percentage"`
}

// Summarize tallies results. Percentage is 0 for an empty slice.
func Summarize(results []models.MatchResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Found {
			s.Found++
		}
	}
	s.NotFound = s.Total - s.Found
	if s.Total > 0 {
		s.Percentage = float64(s.Found) / float64(s.Total) * 100
	}
	return s
}
