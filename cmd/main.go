package main

import (
	"context"
	"os"

	"github.com/desertthunder/studyhub/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	err := newApp(runner).Run(context.Background(), os.Args)
	runner.Close()

	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// newApp builds the root command. The config file is loaded once, before any subcommand runs.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "studyhub",
		Usage:   "Short-form video feed and coding question tracker",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (TOML, or YAML by extension)",
				Value:   "config.toml",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, r.configure(cmd.String("config"), cmd.IsSet("config"))
		},
		Commands: r.register(),
	}
}
