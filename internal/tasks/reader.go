package tasks

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/studyhub/internal/models"
	"github.com/desertthunder/studyhub/internal/shared"
)

// PlaylistLoader reads the persisted playlist collection.
//
// Load returns [shared.ErrStoreAbsent] when nothing has been stored yet and [shared.ErrStoreCorrupt] when the stored
// value is not a playlist collection.
type PlaylistLoader interface {
	Load(ctx context.Context) ([]models.Playlist, error)
}

// PlaylistStore reads and replaces the persisted playlist collection.
type PlaylistStore interface {
	PlaylistLoader
	Save(ctx context.Context, playlists []models.Playlist) error
}

// StoreReader projects persisted playlists into read-only summaries.
//
// It never writes to the store. Absent and corrupt stores both read as empty; the two cases are only told apart in the logs.
type StoreReader struct {
	store  PlaylistLoader
	logger *log.Logger
}

// NewStoreReader creates a reader over store.
func NewStoreReader(store PlaylistLoader, logger *log.Logger) *StoreReader {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &StoreReader{store: store, logger: shared.WithLogger(logger, "component", "store_reader")}
}

// ListCodingQuestions returns one summary per coding playlist that carries a question collection.
//
// Playlists and questions keep their stored order. A present but empty question collection yields a summary with zero
// questions. The result is never nil.
func (r *StoreReader) ListCodingQuestions(ctx context.Context) []models.CodingPlaylistSummary {
	summaries := []models.CodingPlaylistSummary{}

	playlists, ok := r.load(ctx)
	if !ok {
		return summaries
	}

	for _, p := range playlists {
		if p.Type != models.PlaylistCoding || p.CodingQuestions == nil {
			continue
		}

		questions := make([]models.QuestionSummary, 0, len(p.CodingQuestions))
		for _, q := range p.CodingQuestions {
			questions = append(questions, q.Summary())
		}
		summaries = append(summaries, models.CodingPlaylistSummary{Title: p.Title, Questions: questions})
	}
	return summaries
}

// ListPlaylists returns every stored playlist with the same degrade-to-empty contract as [StoreReader.ListCodingQuestions].
func (r *StoreReader) ListPlaylists(ctx context.Context) []models.Playlist {
	playlists, ok := r.load(ctx)
	if !ok {
		return []models.Playlist{}
	}
	return playlists
}

func (r *StoreReader) load(ctx context.Context) ([]models.Playlist, bool) {
	if r.store == nil {
		r.logger.Warn("no playlist store configured")
		return nil, false
	}

	playlists, err := r.store.Load(ctx)
	switch {
	case err == nil:
		if playlists == nil {
			playlists = []models.Playlist{}
		}
		return playlists, true
	case errors.Is(err, shared.ErrStoreAbsent):
		r.logger.Info("playlist store is empty")
	case errors.Is(err, shared.ErrStoreCorrupt):
		r.logger.Warn("playlist store is corrupt, reading as empty", "error", err)
	default:
		r.logger.Error("failed to read playlist store", "error", err)
	}
	return nil, false
}
