// package formatter provides functions to export playlist and shorts data to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/studyhub/internal/models"
	"github.com/desertthunder/studyhub/internal/shared"
)

// Format is an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// ParseFormat maps a user-supplied name to a [Format]. "md" and "text" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Ext returns the file extension, with leading dot, used for the format.
func (f Format) Ext() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return ".json"
	}
}

// ExportCodingSummaries renders coding playlist summaries in the given format.
func ExportCodingSummaries(summaries []models.CodingPlaylistSummary, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return CodingSummariesToCSV(summaries)
	case FormatMarkdown:
		return CodingSummariesToMarkdown(summaries), nil
	case FormatText:
		return CodingSummariesToText(summaries), nil
	default:
		return shared.MarshalJSON(summaries, true)
	}
}

// CodingSummariesToCSV writes one row per question with columns: Playlist, Title, Difficulty, Category, Solved
func CodingSummariesToCSV(summaries []models.CodingPlaylistSummary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Playlist", "Title", "Difficulty", "Category", "Solved"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, s := range summaries {
		for _, q := range s.Questions {
			record := []string{
				s.Title,
				q.Title,
				string(q.Difficulty),
				q.Category,
				strconv.FormatBool(q.Solved),
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// CodingSummariesToMarkdown renders one section per playlist with a checkbox per question.
func CodingSummariesToMarkdown(summaries []models.CodingPlaylistSummary) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Coding Questions\n\n")
	if len(summaries) == 0 {
		buf.WriteString("_No coding playlists._\n")
		return buf.Bytes()
	}

	for _, s := range summaries {
		buf.WriteString(fmt.Sprintf("## %s\n\n", s.Title))
		buf.WriteString(fmt.Sprintf("**Solved**: %d/%d\n\n", s.SolvedCount(), len(s.Questions)))
		for _, q := range s.Questions {
			mark := " "
			if q.Solved {
				mark = "x"
			}
			buf.WriteString(fmt.Sprintf("- [%s] %s (%s%s)\n", mark, q.Title, q.Difficulty, categorySuffix(q.Category)))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// CodingSummariesToText renders summaries as plain numbered lists.
func CodingSummariesToText(summaries []models.CodingPlaylistSummary) []byte {
	var buf bytes.Buffer

	for i, s := range summaries {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(fmt.Sprintf("Playlist: %s\n", s.Title))
		buf.WriteString(fmt.Sprintf("Solved: %d/%d\n\n", s.SolvedCount(), len(s.Questions)))
		for j, q := range s.Questions {
			status := "todo"
			if q.Solved {
				status = "done"
			}
			buf.WriteString(fmt.Sprintf("%d. [%s] %s - %s%s\n", j+1, status, q.Title, q.Difficulty, categorySuffix(q.Category)))
		}
	}

	return buf.Bytes()
}

func categorySuffix(category string) string {
	if category == "" {
		return ""
	}
	return ", " + category
}

// ExportShorts renders aggregated shorts in the given format.
func ExportShorts(videos []models.ShortVideo, f Format, pretty bool) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ShortsToCSV(videos)
	case FormatMarkdown, FormatText:
		return ShortsToText(videos), nil
	default:
		if videos == nil {
			videos = []models.ShortVideo{}
		}
		return shared.MarshalJSON(videos, pretty)
	}
}

// ShortsToCSV converts shorts to CSV with columns: ID, Title, Channel, Published, Views, Duration, Thumbnail
func ShortsToCSV(videos []models.ShortVideo) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Channel", "Published", "Views", "Duration", "Thumbnail"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, v := range videos {
		record := []string{
			v.ID,
			v.Title,
			v.ChannelTitle,
			v.PublishedAt.Format(time.RFC3339),
			strconv.FormatUint(v.ViewCount, 10),
			strconv.Itoa(v.DurationSeconds),
			v.Thumbnail,
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

// ShortsToText renders one line per short: published date, channel, title, duration and views.
func ShortsToText(videos []models.ShortVideo) []byte {
	var buf bytes.Buffer
	for i, v := range videos {
		buf.WriteString(fmt.Sprintf("%d. %s  %s - %s [%ds, %d views]\n",
			i+1, v.PublishedAt.Format("2006-01-02"), v.ChannelTitle, v.Title, v.DurationSeconds, v.ViewCount))
	}
	return buf.Bytes()
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lower-cases s and collapses everything but letters and digits into single dashes.
func Slug(s string) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if slug == "" {
		return "playlist"
	}
	return slug
}

// WriteCodingExport writes a single coding playlist summary to dir/{base}{ext} and returns the path.
//
// base defaults to the slug of the playlist title.
func WriteCodingExport(summary models.CodingPlaylistSummary, f Format, dir, base string) (string, error) {
	if base == "" {
		base = Slug(summary.Title)
	}
	data, err := ExportCodingSummaries([]models.CodingPlaylistSummary{summary}, f)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", f, err)
	}

	path := filepath.Join(dir, base+f.Ext())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
