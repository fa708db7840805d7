package tasks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/desertthunder/studyhub/internal/models"
	"github.com/desertthunder/studyhub/internal/repositories"
	"github.com/desertthunder/studyhub/internal/shared"
	tu "github.com/desertthunder/studyhub/internal/testing"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func setupManager(t *testing.T) (*PlaylistManager, *tu.MemoryKV) {
	t.Helper()

	kv := tu.NewMemoryKV()
	m := NewPlaylistManager(repositories.NewPlaylistRepository(kv, ""), shared.NewLogger(&bytes.Buffer{}))
	m.now = func() time.Time { return fixedNow }

	n := 0
	m.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return m, kv
}

func TestPlaylistManager(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatePlaylist", func(t *testing.T) {
		m, _ := setupManager(t)

		coding, err := m.CreatePlaylist(ctx, "  DSA  ", models.PlaylistCoding)
		if err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}
		if coding.Title != "DSA" || coding.ID != "id-1" || !coding.CreatedAt.Equal(fixedNow) {
			t.Errorf("unexpected playlist: %+v", coding)
		}
		if coding.CodingQuestions == nil {
			t.Error("coding playlist should start with an empty question collection")
		}

		video, err := m.CreatePlaylist(ctx, "Talks", models.PlaylistVideo)
		if err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}
		if video.CodingQuestions != nil {
			t.Error("video playlist should not carry a question collection")
		}

		all, _ := m.Export(ctx)
		if len(all) != 2 || all[0].ID != coding.ID || all[1].ID != video.ID {
			t.Errorf("expected creation order, got %+v", all)
		}
	})

	t.Run("CreatePlaylist rejects bad input", func(t *testing.T) {
		m, kv := setupManager(t)

		for _, tc := range []struct {
			title string
			typ   models.PlaylistType
		}{
			{title: "", typ: models.PlaylistCoding},
			{title: "x", typ: "podcast"},
		} {
			if _, err := m.CreatePlaylist(ctx, tc.title, tc.typ); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("CreatePlaylist(%q, %q): expected ErrInvalidInput, got %v", tc.title, tc.typ, err)
			}
		}
		if kv.Sets() != 0 {
			t.Error("rejected input should not write")
		}
	})

	t.Run("AddQuestion", func(t *testing.T) {
		m, _ := setupManager(t)
		p, _ := m.CreatePlaylist(ctx, "DSA", models.PlaylistCoding)

		q, err := m.AddQuestion(ctx, p.ID, QuestionInput{Title: "Two Sum", Difficulty: "Easy", Category: "arrays", Tags: []string{"hash"}})
		if err != nil {
			t.Fatalf("failed to add question: %v", err)
		}
		if q.Difficulty != models.DifficultyEasy || q.Solved || !q.DateAdded.Equal(fixedNow) {
			t.Errorf("unexpected question: %+v", q)
		}

		found, _ := m.Find(ctx, p.ID)
		if len(found.CodingQuestions) != 1 || found.CodingQuestions[0].Title != "Two Sum" {
			t.Errorf("question not stored: %+v", found.CodingQuestions)
		}
	})

	t.Run("AddQuestion errors", func(t *testing.T) {
		m, _ := setupManager(t)
		coding, _ := m.CreatePlaylist(ctx, "DSA", models.PlaylistCoding)
		video, _ := m.CreatePlaylist(ctx, "Talks", models.PlaylistVideo)

		tc := []struct {
			name     string
			playlist string
			in       QuestionInput
			want     error
		}{
			{name: "unknown difficulty", playlist: coding.ID, in: QuestionInput{Title: "x", Difficulty: "brutal"}, want: shared.ErrInvalidInput},
			{name: "missing title", playlist: coding.ID, in: QuestionInput{Difficulty: "easy"}, want: shared.ErrInvalidInput},
			{name: "video playlist", playlist: video.ID, in: QuestionInput{Title: "x", Difficulty: "easy"}, want: shared.ErrInvalidInput},
			{name: "unknown playlist", playlist: "nope", in: QuestionInput{Title: "x", Difficulty: "easy"}, want: shared.ErrPlaylistNotFound},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := m.AddQuestion(ctx, tt.playlist, tt.in); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("SetSolved", func(t *testing.T) {
		m, _ := setupManager(t)
		p, _ := m.CreatePlaylist(ctx, "DSA", models.PlaylistCoding)
		q, _ := m.AddQuestion(ctx, p.ID, QuestionInput{Title: "Two Sum", Difficulty: "easy"})

		solved, err := m.SetSolved(ctx, p.ID, q.ID, true)
		if err != nil {
			t.Fatalf("failed to solve: %v", err)
		}
		if !solved.Solved || solved.DateSolved == nil || !solved.DateSolved.Equal(fixedNow) {
			t.Errorf("expected solved with date, got %+v", solved)
		}

		unsolved, err := m.SetSolved(ctx, p.ID, q.ID, false)
		if err != nil {
			t.Fatalf("failed to unsolve: %v", err)
		}
		if unsolved.Solved || unsolved.DateSolved != nil {
			t.Errorf("expected unsolved without date, got %+v", unsolved)
		}

		if _, err := m.SetSolved(ctx, p.ID, "missing", true); !errors.Is(err, shared.ErrQuestionNotFound) {
			t.Errorf("expected ErrQuestionNotFound, got %v", err)
		}
	})

	t.Run("UpdateNotes and AddTimeSpent", func(t *testing.T) {
		m, _ := setupManager(t)
		p, _ := m.CreatePlaylist(ctx, "DSA", models.PlaylistCoding)
		q, _ := m.AddQuestion(ctx, p.ID, QuestionInput{Title: "Two Sum", Difficulty: "easy"})

		if _, err := m.UpdateNotes(ctx, p.ID, q.ID, "use a map"); err != nil {
			t.Fatalf("failed to update notes: %v", err)
		}
		m.AddTimeSpent(ctx, p.ID, q.ID, 15)
		updated, err := m.AddTimeSpent(ctx, p.ID, q.ID, 10)
		if err != nil {
			t.Fatalf("failed to add time: %v", err)
		}
		if updated.Notes != "use a map" {
			t.Errorf("expected notes, got %q", updated.Notes)
		}
		if updated.TimeSpent == nil || *updated.TimeSpent != 25 {
			t.Errorf("expected 25 minutes, got %v", updated.TimeSpent)
		}

		if _, err := m.AddTimeSpent(ctx, p.ID, q.ID, -5); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("AddVideo", func(t *testing.T) {
		m, _ := setupManager(t)
		video, _ := m.CreatePlaylist(ctx, "Talks", models.PlaylistVideo)
		coding, _ := m.CreatePlaylist(ctx, "DSA", models.PlaylistCoding)

		v, err := m.AddVideo(ctx, video.ID, models.Video{URL: "https://youtu.be/abc"})
		if err != nil {
			t.Fatalf("failed to add video: %v", err)
		}
		if v.ID == "" || v.Title != "https://youtu.be/abc" {
			t.Errorf("expected generated id and url title, got %+v", v)
		}

		if _, err := m.AddVideo(ctx, video.ID, models.Video{}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for empty video, got %v", err)
		}
		if _, err := m.AddVideo(ctx, coding.ID, models.Video{URL: "u"}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for coding playlist, got %v", err)
		}
	})

	t.Run("DeletePlaylist", func(t *testing.T) {
		m, _ := setupManager(t)
		a, _ := m.CreatePlaylist(ctx, "A", models.PlaylistCoding)
		b, _ := m.CreatePlaylist(ctx, "B", models.PlaylistCoding)

		if err := m.DeletePlaylist(ctx, a.ID); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		all, _ := m.Export(ctx)
		if len(all) != 1 || all[0].ID != b.ID {
			t.Errorf("expected only B to remain, got %+v", all)
		}
		if err := m.DeletePlaylist(ctx, a.ID); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("Find by title", func(t *testing.T) {
		m, _ := setupManager(t)
		p, _ := m.CreatePlaylist(ctx, "DSA", models.PlaylistCoding)

		found, err := m.Find(ctx, "DSA")
		if err != nil || found.ID != p.ID {
			t.Errorf("expected to find %s, got %v, %v", p.ID, found, err)
		}
		if _, err := m.Find(ctx, "missing"); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("Import", func(t *testing.T) {
		m, _ := setupManager(t)
		existing, _ := m.CreatePlaylist(ctx, "Old", models.PlaylistCoding)

		n, err := m.Import(ctx, []models.Playlist{
			{ID: existing.ID, Title: "Replaced", Type: models.PlaylistCoding},
			{Title: "New", Type: models.PlaylistCoding, CodingQuestions: []models.Question{{ID: "q", Title: "t", Difficulty: "hard"}}},
		})
		if err != nil {
			t.Fatalf("failed to import: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 imported, got %d", n)
		}

		all, _ := m.Export(ctx)
		if len(all) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(all))
		}
		if all[0].Title != "Replaced" || all[0].CodingQuestions == nil {
			t.Errorf("expected in-place replacement with a question collection, got %+v", all[0])
		}
		if all[1].ID == "" || all[1].CreatedAt.IsZero() {
			t.Errorf("expected generated id and date, got %+v", all[1])
		}
	})

	t.Run("Import leaves the input untouched", func(t *testing.T) {
		m, _ := setupManager(t)
		in := []models.Playlist{{Title: "Fresh", Type: models.PlaylistCoding}}

		if _, err := m.Import(ctx, in); err != nil {
			t.Fatalf("failed to import: %v", err)
		}
		if in[0].ID != "" || !in[0].CreatedAt.IsZero() || in[0].CodingQuestions != nil {
			t.Errorf("expected caller's playlist unchanged, got %+v", in[0])
		}

		all, _ := m.Export(ctx)
		if all[0].ID == "" || all[0].CodingQuestions == nil {
			t.Errorf("expected stored copy to be filled in, got %+v", all[0])
		}
	})

	t.Run("Import validates before writing", func(t *testing.T) {
		m, kv := setupManager(t)

		_, err := m.Import(ctx, []models.Playlist{
			{Title: "ok", Type: models.PlaylistCoding},
			{Title: "bad", Type: models.PlaylistCoding, CodingQuestions: []models.Question{{Title: "q", Difficulty: "impossible"}}},
		})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if kv.Sets() != 0 {
			t.Error("failed import should not write")
		}
	})

	t.Run("corrupt store refuses writes", func(t *testing.T) {
		m, kv := setupManager(t)
		kv.Set(ctx, repositories.DefaultPlaylistKey, []byte("{not an array"))
		before := kv.Sets()

		if _, err := m.CreatePlaylist(ctx, "DSA", models.PlaylistCoding); !errors.Is(err, shared.ErrStoreCorrupt) {
			t.Errorf("expected ErrStoreCorrupt, got %v", err)
		}
		if _, err := m.Export(ctx); !errors.Is(err, shared.ErrStoreCorrupt) {
			t.Errorf("expected ErrStoreCorrupt from Export, got %v", err)
		}
		if kv.Sets() != before {
			t.Error("corrupt store was overwritten")
		}
	})

	t.Run("save failure is returned", func(t *testing.T) {
		m, kv := setupManager(t)
		kv.SetErr = errors.New("read-only")

		if _, err := m.CreatePlaylist(ctx, "DSA", models.PlaylistCoding); err == nil {
			t.Error("expected save error")
		}
	})

	t.Run("writes are visible to the reader", func(t *testing.T) {
		m, kv := setupManager(t)
		p, _ := m.CreatePlaylist(ctx, "DSA", models.PlaylistCoding)
		q, _ := m.AddQuestion(ctx, p.ID, QuestionInput{Title: "Two Sum", Difficulty: "easy"})
		m.SetSolved(ctx, p.ID, q.ID, true)

		reader := NewStoreReader(repositories.NewPlaylistRepository(kv, ""), shared.NewLogger(&bytes.Buffer{}))
		got := reader.ListCodingQuestions(ctx)
		if len(got) != 1 || got[0].SolvedCount() != 1 {
			t.Errorf("expected one solved question, got %+v", got)
		}
	})
}
