// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the shorts feed and playlist API over HTTP",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides server.port)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (overrides server.host)",
			},
		},
		Action: r.Serve,
	}
}

// shortsCommand prints the aggregated shorts feed
func shortsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "shorts",
		Usage: "Fetch recent short-form videos across the configured channels",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "policy",
				Usage: "Failure policy: fail_fast or skip (overrides youtube.failure_policy)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json, csv or txt",
				Value:   "json",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Log per-channel progress",
			},
		},
		Action: r.Shorts,
	}
}

// playlistsCommand manages playlists
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Manage video and coding playlists",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List every playlist",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.PlaylistsList,
			},
			{
				Name:  "coding",
				Usage: "Show coding playlists with their questions",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: json, csv, markdown or txt (default: styled terminal output)",
					},
				},
				Action: r.PlaylistsCoding,
			},
			{
				Name:      "create",
				Usage:     "Create a playlist",
				ArgsUsage: "<title>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Playlist type: coding or video",
						Value:   "coding",
					},
				},
				Action: r.PlaylistsCreate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a playlist and its questions",
				ArgsUsage: "<playlist id or title>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Action: r.PlaylistsDelete,
			},
			{
				Name:      "import",
				Usage:     "Import playlists from a JSON file",
				ArgsUsage: "<path>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.PlaylistsImport,
			},
			{
				Name:  "export",
				Usage: "Export the playlist collection as JSON, or coding playlists as one file each with --dir",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the collection to this file instead of stdout",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Write one file per coding playlist into this directory",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Per-playlist file format with --dir: json, csv, markdown or txt",
						Value:   "json",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Parallel writers with --dir (max 10)",
						Value: 4,
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.PlaylistsExport,
			},
		},
	}
}

// questionsCommand edits coding questions
func questionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "questions",
		Aliases: []string{"q"},
		Usage:   "Track coding questions",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a question to a coding playlist",
				ArgsUsage: "<playlist id or title>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Question title", Required: true},
					&cli.StringFlag{Name: "difficulty", Aliases: []string{"d"}, Usage: "easy, medium or hard", Value: "medium"},
					&cli.StringFlag{Name: "category", Usage: "Topic, e.g. arrays"},
					&cli.StringFlag{Name: "description", Usage: "Problem statement or link"},
					&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
					&cli.StringSliceFlag{Name: "tag", Usage: "Tag (repeatable)"},
				},
				Action: r.QuestionsAdd,
			},
			{
				Name:      "solve",
				Usage:     "Mark a question solved",
				ArgsUsage: "<playlist> <question id>",
				Arguments: playlistAndQuestion(),
				Action:    r.QuestionsSolve,
			},
			{
				Name:      "unsolve",
				Usage:     "Mark a question unsolved",
				ArgsUsage: "<playlist> <question id>",
				Arguments: playlistAndQuestion(),
				Action:    r.QuestionsUnsolve,
			},
			{
				Name:      "note",
				Usage:     "Replace the notes of a question",
				ArgsUsage: "<playlist> <question id>",
				Arguments: playlistAndQuestion(),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Usage: "New notes", Required: true},
				},
				Action: r.QuestionsNote,
			},
			{
				Name:      "time",
				Usage:     "Add time spent on a question",
				ArgsUsage: "<playlist> <question id>",
				Arguments: playlistAndQuestion(),
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "minutes", Aliases: []string{"m"}, Usage: "Minutes to add", Required: true},
				},
				Action: r.QuestionsTime,
			},
		},
	}
}

// videosCommand edits video playlists
func videosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "videos",
		Usage: "Manage videos in video playlists",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a video to a video playlist",
				ArgsUsage: "<playlist id or title> <url>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
					&cli.StringArg{Name: "url"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Display title (defaults to the URL)"},
				},
				Action: r.VideosAdd,
			},
		},
	}
}

// setupCommand prepares local state
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and storage",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example config file",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the config if missing and run sqlite migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

func playlistAndQuestion() []cli.Argument {
	return []cli.Argument{
		&cli.StringArg{Name: "playlist"},
		&cli.StringArg{Name: "question"},
	}
}
