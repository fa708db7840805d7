package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/studyhub/internal/formatter"
	"github.com/desertthunder/studyhub/internal/models"
)

// ExportOpts contains configuration for exporting coding playlists to files.
type ExportOpts struct {
	Format     formatter.Format
	OutputDir  string // default: studyhub_export_{epoch}
	NumWorkers int    // default: 4, capped at 10
}

// PlaylistExportResult is the outcome of writing one playlist.
type PlaylistExportResult struct {
	Title   string `json:"title"`
	File    string `json:"file,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ExportResult summarizes a multi-file export.
type ExportResult struct {
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"-"`
	Results           []PlaylistExportResult `json:"results"`
}

type exportJob struct {
	index   int
	base    string
	summary models.CodingPlaylistSummary
}

// ExportCodingPlaylists writes each coding playlist summary to its own file using a small worker pool, then writes a
// manifest listing every file.
//
// Results keep the order of summaries. Individual failures are recorded, not returned.
func (r *StoreReader) ExportCodingPlaylists(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	opts ExportOpts,
) (*ExportResult, error) {
	summaries := r.ListCodingQuestions(ctx)

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("studyhub_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(summaries)
	result := &ExportResult{
		TotalPlaylists:  total,
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, total),
	}

	jobs := make(chan exportJob, total)
	results := make(chan exportJob, total)
	written := make([]PlaylistExportResult, total)

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					written[job.index] = PlaylistExportResult{Title: job.summary.Title, Error: ctx.Err().Error()}
				} else {
					written[job.index] = writeOne(job, opts)
				}
				results <- job
			}
		}()
	}

	bases := fileBases(summaries)
	for i, s := range summaries {
		sendProgress(prog, exportingPlaylistUpdate(i+1, total, s.Title))
		jobs <- exportJob{index: i, base: bases[i], summary: s}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for job := range results {
		completed++
		res := written[job.index]
		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, total, res.Title, res.File))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, total, res.Title, fmt.Errorf("%s", res.Error)))
		}
	}
	copy(result.Results, written)

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	r.logger.Info("export finished", "dir", opts.OutputDir, "ok", result.SuccessfulExports, "failed", result.FailedExports)
	return result, nil
}

// fileBases slugs each title and suffixes -2, -3, ... until the name is unused, so no two playlists share a file.
func fileBases(summaries []models.CodingPlaylistSummary) []string {
	used := make(map[string]bool, len(summaries))
	bases := make([]string, len(summaries))
	for i, s := range summaries {
		slug := formatter.Slug(s.Title)
		base := slug
		for n := 2; used[base]; n++ {
			base = fmt.Sprintf("%s-%d", slug, n)
		}
		used[base] = true
		bases[i] = base
	}
	return bases
}

func writeOne(job exportJob, opts ExportOpts) PlaylistExportResult {
	res := PlaylistExportResult{Title: job.summary.Title}
	path, err := formatter.WriteCodingExport(job.summary, opts.Format, opts.OutputDir, job.base)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.File = path
	res.Success = true
	return res
}
