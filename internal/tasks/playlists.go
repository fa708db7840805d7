package tasks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/studyhub/internal/models"
	"github.com/desertthunder/studyhub/internal/shared"
)

// QuestionInput holds the user-supplied fields of a new coding question.
type QuestionInput struct {
	Title       string
	Description string
	Difficulty  string
	Category    string
	Notes       string
	Tags        []string
}

// PlaylistManager performs the write operations on the playlist store.
//
// Every operation is a load-modify-save of the whole collection, serialized by a mutex. A corrupt store is never
// overwritten: writes fail with [shared.ErrStoreCorrupt] until the store is cleared or re-imported.
type PlaylistManager struct {
	mu     sync.Mutex
	store  PlaylistStore
	logger *log.Logger
	now    func() time.Time
	newID  func() string
}

// NewPlaylistManager creates a manager over store.
func NewPlaylistManager(store PlaylistStore, logger *log.Logger) *PlaylistManager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlaylistManager{
		store:  store,
		logger: shared.WithLogger(logger, "component", "playlists"),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  shared.GenerateID,
	}
}

// CreatePlaylist appends a new playlist. Coding playlists start with an empty question collection.
func (m *PlaylistManager) CreatePlaylist(ctx context.Context, title string, typ models.PlaylistType) (*models.Playlist, error) {
	p := models.Playlist{
		ID:        m.newID(),
		Title:     strings.TrimSpace(title),
		Type:      typ,
		CreatedAt: m.now(),
	}
	if typ == models.PlaylistCoding {
		p.CodingQuestions = []models.Question{}
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	err := m.mutate(ctx, func(playlists []models.Playlist) ([]models.Playlist, error) {
		return append(playlists, p), nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("playlist created", "id", p.ID, "title", p.Title, "type", p.Type)
	return &p, nil
}

// DeletePlaylist removes a playlist and every question it owns.
func (m *PlaylistManager) DeletePlaylist(ctx context.Context, playlistID string) error {
	err := m.mutate(ctx, func(playlists []models.Playlist) ([]models.Playlist, error) {
		i := indexOf(playlists, playlistID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
		}
		return append(playlists[:i], playlists[i+1:]...), nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("playlist deleted", "id", playlistID)
	return nil
}

// AddVideo appends a video to a video playlist.
func (m *PlaylistManager) AddVideo(ctx context.Context, playlistID string, v models.Video) (*models.Video, error) {
	if strings.TrimSpace(v.URL) == "" && strings.TrimSpace(v.ID) == "" {
		return nil, fmt.Errorf("%w: video url or id is required", shared.ErrInvalidInput)
	}
	if v.ID == "" {
		v.ID = m.newID()
	}
	if v.Title == "" {
		v.Title = v.URL
	}

	err := m.mutate(ctx, func(playlists []models.Playlist) ([]models.Playlist, error) {
		p, err := findPlaylist(playlists, playlistID)
		if err != nil {
			return nil, err
		}
		if p.Type != models.PlaylistVideo {
			return nil, fmt.Errorf("%w: playlist %q is not a video playlist", shared.ErrInvalidInput, p.Title)
		}
		p.Videos = append(p.Videos, v)
		return playlists, nil
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// AddQuestion appends a question to a coding playlist.
func (m *PlaylistManager) AddQuestion(ctx context.Context, playlistID string, in QuestionInput) (*models.Question, error) {
	difficulty, err := models.ParseDifficulty(in.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	q := models.Question{
		ID:          m.newID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Difficulty:  difficulty,
		Category:    in.Category,
		Notes:       in.Notes,
		Tags:        in.Tags,
		DateAdded:   m.now(),
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	err = m.mutate(ctx, func(playlists []models.Playlist) ([]models.Playlist, error) {
		p, err := findPlaylist(playlists, playlistID)
		if err != nil {
			return nil, err
		}
		if p.Type != models.PlaylistCoding {
			return nil, fmt.Errorf("%w: playlist %q is not a coding playlist", shared.ErrInvalidInput, p.Title)
		}
		p.CodingQuestions = append(p.CodingQuestions, q)
		return playlists, nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("question added", "playlist", playlistID, "question", q.ID, "difficulty", q.Difficulty)
	return &q, nil
}

// SetSolved marks a question solved or unsolved, stamping or clearing its solve date.
func (m *PlaylistManager) SetSolved(ctx context.Context, playlistID, questionID string, solved bool) (*models.Question, error) {
	return m.updateQuestion(ctx, playlistID, questionID, func(q *models.Question) error {
		if q.Solved == solved {
			return nil
		}
		q.Solved = solved
		if solved {
			now := m.now()
			q.DateSolved = &now
		} else {
			q.DateSolved = nil
		}
		return nil
	})
}

// UpdateNotes replaces the notes of a question.
func (m *PlaylistManager) UpdateNotes(ctx context.Context, playlistID, questionID, notes string) (*models.Question, error) {
	return m.updateQuestion(ctx, playlistID, questionID, func(q *models.Question) error {
		q.Notes = notes
		return nil
	})
}

// AddTimeSpent adds minutes to the time tracked on a question.
func (m *PlaylistManager) AddTimeSpent(ctx context.Context, playlistID, questionID string, minutes int) (*models.Question, error) {
	if minutes < 0 {
		return nil, fmt.Errorf("%w: minutes cannot be negative", shared.ErrInvalidInput)
	}
	return m.updateQuestion(ctx, playlistID, questionID, func(q *models.Question) error {
		total := minutes
		if q.TimeSpent != nil {
			total += *q.TimeSpent
		}
		q.TimeSpent = &total
		return nil
	})
}

// Import merges playlists into the store. Entries whose id already exists replace the stored entry in place; the rest
// are appended in the given order. Missing ids and creation dates are filled in on a copy; the caller's slice is not
// modified.
func (m *PlaylistManager) Import(ctx context.Context, in []models.Playlist) (int, error) {
	incoming := slices.Clone(in)
	for i := range incoming {
		p := &incoming[i]
		if p.ID == "" {
			p.ID = m.newID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = m.now()
		}
		if p.Type == models.PlaylistCoding && p.CodingQuestions == nil {
			p.CodingQuestions = []models.Question{}
		}
		if err := p.Validate(); err != nil {
			return 0, fmt.Errorf("%w: playlist %d: %v", shared.ErrInvalidInput, i, err)
		}
		for j := range p.CodingQuestions {
			if err := p.CodingQuestions[j].Validate(); err != nil {
				return 0, fmt.Errorf("%w: playlist %q question %d: %v", shared.ErrInvalidInput, p.Title, j, err)
			}
		}
	}

	err := m.mutate(ctx, func(playlists []models.Playlist) ([]models.Playlist, error) {
		for _, p := range incoming {
			if i := indexOf(playlists, p.ID); i >= 0 {
				playlists[i] = p
				continue
			}
			playlists = append(playlists, p)
		}
		return playlists, nil
	})
	if err != nil {
		return 0, err
	}

	m.logger.Info("playlists imported", "count", len(incoming))
	return len(incoming), nil
}

// Export returns the stored collection. Unlike [StoreReader], a corrupt store is reported as an error.
func (m *PlaylistManager) Export(ctx context.Context) ([]models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx)
}

// Find resolves a playlist by id, falling back to an exact title match.
func (m *PlaylistManager) Find(ctx context.Context, idOrTitle string) (*models.Playlist, error) {
	playlists, err := m.Export(ctx)
	if err != nil {
		return nil, err
	}
	for i := range playlists {
		if playlists[i].ID == idOrTitle {
			return &playlists[i], nil
		}
	}
	for i := range playlists {
		if playlists[i].Title == idOrTitle {
			return &playlists[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, idOrTitle)
}

func (m *PlaylistManager) updateQuestion(
	ctx context.Context,
	playlistID, questionID string,
	fn func(q *models.Question) error,
) (*models.Question, error) {
	var updated models.Question
	err := m.mutate(ctx, func(playlists []models.Playlist) ([]models.Playlist, error) {
		p, err := findPlaylist(playlists, playlistID)
		if err != nil {
			return nil, err
		}
		q := p.Question(questionID)
		if q == nil {
			return nil, fmt.Errorf("%w: %s", shared.ErrQuestionNotFound, questionID)
		}
		if err := fn(q); err != nil {
			return nil, err
		}
		updated = *q
		return playlists, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (m *PlaylistManager) mutate(ctx context.Context, fn func([]models.Playlist) ([]models.Playlist, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	playlists, err := m.load(ctx)
	if err != nil {
		return err
	}

	updated, err := fn(playlists)
	if err != nil {
		return err
	}
	return m.store.Save(ctx, updated)
}

func (m *PlaylistManager) load(ctx context.Context) ([]models.Playlist, error) {
	if m.store == nil {
		return nil, fmt.Errorf("%w: playlist store not initialized", shared.ErrServiceUnavailable)
	}

	playlists, err := m.store.Load(ctx)
	if errors.Is(err, shared.ErrStoreAbsent) {
		return []models.Playlist{}, nil
	}
	if err != nil {
		return nil, err
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	return playlists, nil
}

func indexOf(playlists []models.Playlist, id string) int {
	for i := range playlists {
		if playlists[i].ID == id {
			return i
		}
	}
	return -1
}

func findPlaylist(playlists []models.Playlist, id string) (*models.Playlist, error) {
	i := indexOf(playlists, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return &playlists[i], nil
}
