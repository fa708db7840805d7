package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/studyhub/internal/formatter"
	"github.com/desertthunder/studyhub/internal/models"
	"github.com/desertthunder/studyhub/internal/shared"
	"github.com/desertthunder/studyhub/internal/tasks"
	"github.com/desertthunder/studyhub/internal/ui"
	"github.com/urfave/cli/v3"
)

// PlaylistsList prints every stored playlist.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	reader, err := r.reader(ctx)
	if err != nil {
		return err
	}

	playlists := reader.ListPlaylists(ctx)
	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}
	return r.writePlain("%s", ui.RenderPlaylists(playlists))
}

// PlaylistsCoding prints coding playlists with their question summaries.
func (r *Runner) PlaylistsCoding(ctx context.Context, cmd *cli.Command) error {
	reader, err := r.reader(ctx)
	if err != nil {
		return err
	}

	summaries := reader.ListCodingQuestions(ctx)
	if cmd.String("format") == "" {
		return r.writePlain("%s", ui.RenderCodingPlaylists(summaries))
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	data, err := formatter.ExportCodingSummaries(summaries, format)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// PlaylistsCreate creates an empty playlist.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	m, err := r.manager(ctx)
	if err != nil {
		return err
	}
	p, err := m.CreatePlaylist(ctx, title, models.PlaylistType(strings.ToLower(cmd.String("type"))))
	if err != nil {
		return err
	}
	return r.writePlain("%s %s (%s)\n", ui.Success("✓ Created"), p.Title, p.ID)
}

// PlaylistsDelete removes a playlist by id or title.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	m, p, err := r.resolvePlaylist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}
	if err := m.DeletePlaylist(ctx, p.ID); err != nil {
		return err
	}
	return r.writePlain("%s %s\n", ui.Success("✓ Deleted"), p.Title)
}

// PlaylistsImport merges playlists from a JSON file into the store.
//
// The file holds either a playlist array or an object with the array under the store key.
func (r *Runner) PlaylistsImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	playlists, err := decodeImport(data, r.config.Store.Key)
	if err != nil {
		return err
	}

	m, err := r.manager(ctx)
	if err != nil {
		return err
	}
	n, err := m.Import(ctx, playlists)
	if err != nil {
		return err
	}
	return r.writePlain("%s %d playlists from %s\n", ui.Success("✓ Imported"), n, path)
}

func decodeImport(data []byte, key string) ([]models.Playlist, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
		raw, ok := wrapped[key]
		if !ok {
			return nil, fmt.Errorf("%w: import object has no %q field", shared.ErrInvalidInput, key)
		}
		trimmed = raw
	}

	var playlists []models.Playlist
	if err := json.Unmarshal(trimmed, &playlists); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return playlists, nil
}

// PlaylistsExport writes the whole collection as JSON, or one file per coding playlist when --dir is set.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	if dir := cmd.String("dir"); dir != "" {
		return r.exportFiles(ctx, cmd, dir)
	}

	m, err := r.manager(ctx)
	if err != nil {
		return err
	}
	playlists, err := m.Export(ctx)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	data, err := shared.MarshalJSON(playlists, cmd.Bool("pretty"))
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return r.writePlain("%s %d playlists to %s\n", ui.Success("✓ Exported"), len(playlists), output)
}

func (r *Runner) exportFiles(ctx context.Context, cmd *cli.Command, dir string) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	reader, err := r.reader(ctx)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 32)
	done := make(chan struct{})
	go r.logProgress(progress, done)

	result, err := reader.ExportCodingPlaylists(ctx, progress, tasks.ExportOpts{
		Format:     format,
		OutputDir:  dir,
		NumWorkers: cmd.Int("workers"),
	})
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("%s %d/%d coding playlists to %s\n",
		ui.Success("✓ Exported"), result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	for _, res := range result.Results {
		if !res.Success {
			r.writePlain("  %s %s: %s\n", ui.Error("✗"), res.Title, res.Error)
		}
	}
	return r.writePlain("Manifest: %s\n", result.ManifestPath)
}

// QuestionsAdd adds a question to a coding playlist.
func (r *Runner) QuestionsAdd(ctx context.Context, cmd *cli.Command) error {
	m, p, err := r.resolvePlaylist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}

	q, err := m.AddQuestion(ctx, p.ID, tasks.QuestionInput{
		Title:       cmd.String("title"),
		Description: cmd.String("description"),
		Difficulty:  cmd.String("difficulty"),
		Category:    cmd.String("category"),
		Notes:       cmd.String("notes"),
		Tags:        cmd.StringSlice("tag"),
	})
	if err != nil {
		return err
	}
	return r.writePlain("%s %s to %s (%s)\n", ui.Success("✓ Added"), q.Title, p.Title, q.ID)
}

// QuestionsSolve marks a question solved.
func (r *Runner) QuestionsSolve(ctx context.Context, cmd *cli.Command) error {
	return r.setSolved(ctx, cmd, true)
}

// QuestionsUnsolve marks a question unsolved.
func (r *Runner) QuestionsUnsolve(ctx context.Context, cmd *cli.Command) error {
	return r.setSolved(ctx, cmd, false)
}

func (r *Runner) setSolved(ctx context.Context, cmd *cli.Command, solved bool) error {
	m, p, err := r.resolvePlaylist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}
	q, err := m.SetSolved(ctx, p.ID, cmd.StringArg("question"), solved)
	if err != nil {
		return err
	}

	state := "unsolved"
	if q.Solved {
		state = "solved"
	}
	return r.writePlain("%s %s is %s\n", ui.Success("✓"), q.Title, state)
}

// QuestionsNote replaces the notes of a question.
func (r *Runner) QuestionsNote(ctx context.Context, cmd *cli.Command) error {
	m, p, err := r.resolvePlaylist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}
	q, err := m.UpdateNotes(ctx, p.ID, cmd.StringArg("question"), cmd.String("text"))
	if err != nil {
		return err
	}
	return r.writePlain("%s notes updated for %s\n", ui.Success("✓"), q.Title)
}

// QuestionsTime adds minutes to the time spent on a question.
func (r *Runner) QuestionsTime(ctx context.Context, cmd *cli.Command) error {
	m, p, err := r.resolvePlaylist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}
	q, err := m.AddTimeSpent(ctx, p.ID, cmd.StringArg("question"), cmd.Int("minutes"))
	if err != nil {
		return err
	}
	return r.writePlain("%s %s: %d minutes total\n", ui.Success("✓"), q.Title, *q.TimeSpent)
}

// VideosAdd appends a video to a video playlist.
func (r *Runner) VideosAdd(ctx context.Context, cmd *cli.Command) error {
	url := cmd.StringArg("url")
	if url == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	m, p, err := r.resolvePlaylist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}
	v, err := m.AddVideo(ctx, p.ID, models.Video{URL: url, Title: cmd.String("title")})
	if err != nil {
		return err
	}
	return r.writePlain("%s %s to %s\n", ui.Success("✓ Added"), v.Title, p.Title)
}

// resolvePlaylist finds a playlist by id or exact title.
func (r *Runner) resolvePlaylist(ctx context.Context, idOrTitle string) (*tasks.PlaylistManager, *models.Playlist, error) {
	if idOrTitle == "" {
		return nil, nil, fmt.Errorf("%w: playlist", shared.ErrMissingArgument)
	}

	m, err := r.manager(ctx)
	if err != nil {
		return nil, nil, err
	}
	p, err := m.Find(ctx, idOrTitle)
	if err != nil {
		return nil, nil, err
	}
	return m, p, nil
}
