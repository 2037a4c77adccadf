// package formatter renders match reports as JSON, CSV, Markdown, or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
)

// Format is an output format for a [Report].
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// ParseFormat accepts a format name, case-insensitively. "md" and "text" are aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want json, csv, markdown or txt)", shared.ErrInvalidArgument, s)
	}
}

// Report is the outcome of matching one song listing.
type Report struct {
	ID          string               `json:"id"`
	Source      string               `json:"source"`
	GeneratedAt time.Time            `json:"generated_at"`
	Summary     tasks.Summary        `json:"summary"`
	Results     []models.MatchResult `json:"results"`
}

// NewReport builds a [Report] with a fresh ID and summary.
func NewReport(source string, results []models.MatchResult) *Report {
	return &Report{
		ID:          shared.GenerateID(),
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		Summary:     tasks.Summarize(results),
		Results:     results,
	}
}

// Render encodes report in the given format.
func Render(report *Report, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return shared.MarshalJSON(report, true)
	case FormatCSV:
		return ExportToCSV(report)
	case FormatMarkdown:
		return ExportToMarkdown(report)
	case FormatText:
		return ExportToText(report)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV writes one row per result with columns: Title, Artist, Found, Track ID, Track, Track Artist, Album, URL, Strategy, Message
func ExportToCSV(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "Artist", "Found", "Track ID", "Track", "Track Artist", "Album", "URL", "Strategy", "Message"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range report.Results {
		record := []string{
			r.Query.Title,
			r.Query.Artist,
			fmt.Sprintf("%t", r.Found),
			r.TrackID,
			r.TrackName,
			r.ArtistName,
			r.AlbumName,
			r.ExternalURL,
			r.Strategy,
			r.FailureReason,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a summary followed by found and missing sections.
func ExportToMarkdown(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	s := report.Summary

	buf.WriteString(fmt.Sprintf("# %s\n\n", reportTitle(report)))
	buf.WriteString(fmt.Sprintf("**Generated**: %s\n", report.GeneratedAt.Format(time.RFC1123)))
	buf.WriteString(fmt.Sprintf("**Found**: %d of %d (%.1f%%)\n\n", s.Found, s.Total, s.Percentage))

	buf.WriteString("## Found\n\n")
	n := 0
	for _, r := range report.Results {
		if !r.Found {
			continue
		}
		n++
		track := r.TrackName
		if r.ExternalURL != "" {
			track = fmt.Sprintf("[%s](%s)", r.TrackName, r.ExternalURL)
		}
		albumPart := ""
		if r.AlbumName != "" {
			albumPart = fmt.Sprintf(" (%s)", r.AlbumName)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", n, r.ArtistName, track, albumPart))
	}
	if n == 0 {
		buf.WriteString("_None_\n")
	}

	buf.WriteString("\n## Not Found\n\n")
	if s.NotFound == 0 {
		buf.WriteString("_None_\n")
	}
	for _, r := range report.Results {
		if r.Found {
			continue
		}
		buf.WriteString(fmt.Sprintf("- %s - %s: %s\n", r.Query.Title, r.Query.Artist, r.FailureReason))
	}

	return buf.Bytes(), nil
}

// ExportToText renders one line per result, marking found tracks with ✓ and missing ones with ✗.
func ExportToText(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	s := report.Summary

	buf.WriteString(fmt.Sprintf("Source: %s\n", report.Source))
	buf.WriteString(fmt.Sprintf("Found: %d/%d (%.1f%%)\n\n", s.Found, s.Total, s.Percentage))

	for i, r := range report.Results {
		if r.Found {
			buf.WriteString(fmt.Sprintf("%d. ✓ %s - %s => %s - %s\n", i+1, r.Query.Title, r.Query.Artist, r.TrackName, r.ArtistName))
		} else {
			buf.WriteString(fmt.Sprintf("%d. ✗ %s - %s (%s)\n", i+1, r.Query.Title, r.Query.Artist, r.FailureReason))
		}
	}

	return buf.Bytes(), nil
}

func reportTitle(report *Report) string {
	if report.Source == "" {
		return "Match Report"
	}
	return fmt.Sprintf("Match Report: %s", report.Source)
}

// WriteReport renders report and writes it to path.
//
// Defaults to {report.ID}_results.{ext} as the filename.
func WriteReport(report *Report, format Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_results.%s", report.ID, format.Extension())
	}

	data, err := Render(report, format)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return path, nil
}
