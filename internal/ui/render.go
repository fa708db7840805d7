package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/studyhub/internal/models"
)

// RenderCodingPlaylists renders coding playlist summaries for the terminal, one block per playlist.
func RenderCodingPlaylists(summaries []models.CodingPlaylistSummary) string {
	if len(summaries) == 0 {
		return Help("No coding playlists.") + "\n"
	}

	var b strings.Builder
	for i, s := range summaries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %s\n", Title(s.Title), Help(fmt.Sprintf("%d/%d solved", s.SolvedCount(), len(s.Questions))))

		if len(s.Questions) == 0 {
			b.WriteString("  " + Help("no questions yet") + "\n")
			continue
		}
		for _, q := range s.Questions {
			b.WriteString("  " + renderQuestion(q) + "\n")
		}
	}
	return b.String()
}

func renderQuestion(q models.QuestionSummary) string {
	mark := "[ ]"
	if q.Solved {
		mark = Success("[x]")
	}

	line := fmt.Sprintf("%s %s  %s", mark, q.Title, styles.Difficulty(q.Difficulty).Render(string(q.Difficulty)))
	if q.Category != "" {
		line += "  " + Help(q.Category)
	}
	return line
}

// RenderPlaylists renders a one-line overview per playlist.
func RenderPlaylists(playlists []models.Playlist) string {
	if len(playlists) == 0 {
		return Help("No playlists.") + "\n"
	}

	var b strings.Builder
	for _, p := range playlists {
		var count string
		switch p.Type {
		case models.PlaylistCoding:
			count = fmt.Sprintf("%d questions", len(p.CodingQuestions))
		default:
			count = fmt.Sprintf("%d videos", len(p.Videos))
		}
		fmt.Fprintf(&b, "%s  %s  %s\n", Title(p.Title), Help(string(p.Type)+", "+count), Help(p.ID))
	}
	return b.String()
}
