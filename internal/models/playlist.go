package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PlaylistType discriminates video playlists from coding playlists.
type PlaylistType string

const (
	PlaylistVideo  PlaylistType = "video"
	PlaylistCoding PlaylistType = "coding"
)

// Valid reports whether t is a known playlist type.
func (t PlaylistType) Valid() bool {
	return t == PlaylistVideo || t == PlaylistCoding
}

// Difficulty is the lower-case difficulty of a coding question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes s to its canonical lower-case form and rejects unknown values.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// Valid reports whether d is one of easy, medium or hard.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// UnmarshalJSON accepts any casing ("Easy", "HARD") and stores the lower-case form.
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*d = Difficulty(strings.ToLower(strings.TrimSpace(s)))
	return nil
}

// Playlist is a user-organized collection of either videos or coding questions.
//
// CodingQuestions is nil when the stored record has no question collection and non-nil (possibly empty) when it has one.
type Playlist struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Type            PlaylistType `json:"type"`
	CreatedAt       time.Time    `json:"createdAt"`
	Videos          []Video      `json:"videos,omitempty"`
	CodingQuestions []Question   `json:"codingQuestions"`
}

// Validate checks the fields every stored playlist must carry.
func (p *Playlist) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("playlist title is required")
	}
	if !p.Type.Valid() {
		return fmt.Errorf("unknown playlist type %q", p.Type)
	}
	if p.Type == PlaylistVideo && len(p.CodingQuestions) > 0 {
		return fmt.Errorf("video playlist %q cannot hold coding questions", p.Title)
	}
	return nil
}

// Question returns a pointer to the question with the given id, or nil.
func (p *Playlist) Question(id string) *Question {
	for i := range p.CodingQuestions {
		if p.CodingQuestions[i].ID == id {
			return &p.CodingQuestions[i]
		}
	}
	return nil
}

// Question is a coding question owned by a single coding playlist.
type Question struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Category    string     `json:"category"`
	Solved      bool       `json:"solved"`
	Notes       string     `json:"notes,omitempty"`
	TimeSpent   *int       `json:"timeSpent,omitempty"` // minutes
	Tags        []string   `json:"tags,omitempty"`
	DateAdded   time.Time  `json:"dateAdded"`
	DateSolved  *time.Time `json:"dateSolved,omitempty"`
}

// Validate checks a question before it is written to the store.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("question title is required")
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", q.Difficulty)
	}
	if q.TimeSpent != nil && *q.TimeSpent < 0 {
		return fmt.Errorf("time spent cannot be negative")
	}
	return nil
}

// Summary projects the question to its display fields.
func (q Question) Summary() QuestionSummary {
	return QuestionSummary{
		Title:      q.Title,
		Difficulty: q.Difficulty,
		Category:   q.Category,
		Solved:     q.Solved,
	}
}

// Video is an entry of a video playlist.
type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Watched   bool   `json:"watched"`
	Notes     string `json:"notes,omitempty"`
}

// QuestionSummary is the display projection of a [Question].
type QuestionSummary struct {
	Title      string     `json:"title"`
	Difficulty Difficulty `json:"difficulty"`
	Category   string     `json:"category"`
	Solved     bool       `json:"solved"`
}

// CodingPlaylistSummary pairs a coding playlist title with its question summaries, in stored order.
type CodingPlaylistSummary struct {
	Title     string            `json:"title"`
	Questions []QuestionSummary `json:"questions"`
}

// SolvedCount returns how many of the summarized questions are solved.
func (s CodingPlaylistSummary) SolvedCount() int {
	n := 0
	for _, q := range s.Questions {
		if q.Solved {
			n++
		}
	}
	return n
}
