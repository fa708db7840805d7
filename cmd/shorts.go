package main

import (
	"context"

	"github.com/desertthunder/studyhub/internal/formatter"
	"github.com/desertthunder/studyhub/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Shorts fetches the merged shorts feed once and prints it.
func (r *Runner) Shorts(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	agg, err := r.aggregator(ctx, cmd.String("policy"))
	if err != nil {
		return err
	}

	var progress chan tasks.ProgressUpdate
	done := make(chan struct{})
	if cmd.Bool("progress") {
		progress = make(chan tasks.ProgressUpdate, 32)
		go r.logProgress(progress, done)
	} else {
		close(done)
	}

	res, err := agg.Aggregate(ctx, progress)
	if progress != nil {
		close(progress)
	}
	<-done

	if err != nil {
		return err
	}
	for _, f := range res.Failures {
		r.logger.Warn("channel skipped", "channel", f.ChannelID, "stage", f.Stage, "error", f.Err)
	}

	data, err := formatter.ExportShorts(res.Videos, format, cmd.Bool("pretty"))
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}
