package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/studyhub/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style

	easy   lipgloss.Style
	medium lipgloss.Style
	hard   lipgloss.Style
}

// NewPalette builds a palette from title, success, error, warning and help colors.
//
// Easy questions use the success color and hard ones the error color; medium is always yellow.
func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:  NewBold(t),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		easy:   NewStyle(s),
		medium: NewStyle("#E5C07B"),
		hard:   NewStyle(e),
	}
}

// Difficulty returns the style for a question difficulty; unknown values use the help style.
func (p *Palette) Difficulty(d models.Difficulty) lipgloss.Style {
	switch d {
	case models.DifficultyEasy:
		return p.easy
	case models.DifficultyMedium:
		return p.medium
	case models.DifficultyHard:
		return p.hard
	default:
		return p.help
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Success renders a success message.
func Success(s string) string { return styles.ok.Render(s) }

// Error renders an error message.
func Error(s string) string { return styles.err.Render(s) }

// Warn renders a warning.
func Warn(s string) string { return styles.warn.Render(s) }

// Help renders secondary text.
func Help(s string) string { return styles.help.Render(s) }

// Title renders a heading.
func Title(s string) string { return styles.title.Render(s) }
