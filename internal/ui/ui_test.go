package ui

import (
	"strings"
	"testing"

	"github.com/desertthunder/studyhub/internal/models"
)

func TestRenderCodingPlaylists(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := RenderCodingPlaylists(nil); !strings.Contains(got, "No coding playlists.") {
			t.Errorf("expected empty message, got %q", got)
		}
	})

	t.Run("questions", func(t *testing.T) {
		out := RenderCodingPlaylists([]models.CodingPlaylistSummary{
			{Title: "DSA", Questions: []models.QuestionSummary{
				{Title: "Two Sum", Difficulty: models.DifficultyEasy, Category: "arrays", Solved: true},
				{Title: "Median of Two Arrays", Difficulty: models.DifficultyHard},
			}},
			{Title: "Empty", Questions: []models.QuestionSummary{}},
		})

		for _, want := range []string{"DSA", "1/2 solved", "[x]", "Two Sum", "easy", "arrays", "[ ]", "hard", "Empty", "no questions yet"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q:\n%s", want, out)
			}
		}
		if strings.Index(out, "Two Sum") > strings.Index(out, "Median") {
			t.Error("questions rendered out of order")
		}
	})
}

func TestRenderPlaylists(t *testing.T) {
	out := RenderPlaylists([]models.Playlist{
		{ID: "c1", Title: "DSA", Type: models.PlaylistCoding, CodingQuestions: make([]models.Question, 3)},
		{ID: "v1", Title: "Talks", Type: models.PlaylistVideo, Videos: make([]models.Video, 2)},
	})

	for _, want := range []string{"DSA", "coding, 3 questions", "c1", "Talks", "video, 2 videos"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}

	if got := RenderPlaylists(nil); !strings.Contains(got, "No playlists.") {
		t.Errorf("expected empty message, got %q", got)
	}
}

func TestPaletteDifficulty(t *testing.T) {
	p := NewPalette("#000000", "#00FF00", "#FF0000", "#FFA500", "#626262")

	if p.Difficulty(models.DifficultyEasy).GetForeground() != p.ok.GetForeground() {
		t.Error("easy should use the success color")
	}
	if p.Difficulty(models.DifficultyHard).GetForeground() != p.err.GetForeground() {
		t.Error("hard should use the error color")
	}
	if p.Difficulty("unknown").GetForeground() != p.help.GetForeground() {
		t.Error("unknown difficulty should fall back to the help style")
	}
}
