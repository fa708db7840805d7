package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/studyhub/internal/repositories"
	"github.com/desertthunder/studyhub/internal/services"
	"github.com/desertthunder/studyhub/internal/shared"
	"github.com/desertthunder/studyhub/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The video platform and the key-value store are created on first use, so commands that need neither never touch
// the network or the database.
type Runner struct {
	config         *shared.Config
	configPath     string
	configInjected bool
	platform       services.VideoPlatform
	store          repositories.KVStore
	ownsStore      bool
	logger         *log.Logger
	output         io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Platform   services.VideoPlatform
	Store      repositories.KVStore
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	injected := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:         opts.Config,
		configPath:     opts.ConfigPath,
		configInjected: injected,
		platform:       opts.Platform,
		store:          opts.Store,
		logger:         opts.Logger,
		output:         opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, shortsCommand, playlistsCommand, questionsCommand, videosCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configure loads the config file at path, falling back to the embedded defaults when it does not exist.
// An injected config is kept unless a path was given explicitly.
func (r *Runner) configure(path string, explicit bool) error {
	if r.configInjected && !explicit {
		shared.ApplyLogLevel(r.logger, r.config.Log.Level)
		return nil
	}

	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return err
		}
		r.config = config
	} else {
		if explicit {
			r.logger.Warn("config file not found, using defaults", "path", path)
		}
		r.config = shared.DefaultConfig()
		r.config.ApplyEnv(os.LookupEnv)
	}

	r.configPath = path
	shared.ApplyLogLevel(r.logger, r.config.Log.Level)
	r.logger.Debug("configuration loaded", "path", path, "backend", r.config.Store.Backend)
	return nil
}

// Close releases the store if the runner opened it.
func (r *Runner) Close() {
	if r.ownsStore && r.store != nil {
		if err := r.store.Close(); err != nil {
			r.logger.Warn("failed to close store", "error", err)
		}
		r.store = nil
		r.ownsStore = false
	}
}

func (r *Runner) openStore(ctx context.Context) (repositories.KVStore, error) {
	if r.store != nil {
		return r.store, nil
	}

	store, err := repositories.Open(ctx, r.config)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", r.config.Store.Backend, err)
	}
	r.store = store
	r.ownsStore = true
	return store, nil
}

func (r *Runner) playlistRepository(ctx context.Context) (*repositories.PlaylistRepository, error) {
	store, err := r.openStore(ctx)
	if err != nil {
		return nil, err
	}
	return repositories.NewPlaylistRepository(store, r.config.Store.Key), nil
}

func (r *Runner) manager(ctx context.Context) (*tasks.PlaylistManager, error) {
	repo, err := r.playlistRepository(ctx)
	if err != nil {
		return nil, err
	}
	return tasks.NewPlaylistManager(repo, r.logger), nil
}

func (r *Runner) reader(ctx context.Context) (*tasks.StoreReader, error) {
	repo, err := r.playlistRepository(ctx)
	if err != nil {
		return nil, err
	}
	return tasks.NewStoreReader(repo, r.logger), nil
}

func (r *Runner) videoPlatform(ctx context.Context) (services.VideoPlatform, error) {
	if r.platform != nil {
		return r.platform, nil
	}

	yt, err := services.NewYouTubeService(ctx, services.YouTubeOptsFromConfig(r.config.YouTube, r.logger))
	if err != nil {
		return nil, err
	}
	r.platform = yt
	return yt, nil
}

// aggregator builds a [tasks.ShortsAggregator] from config. A non-empty policy overrides the configured one.
func (r *Runner) aggregator(ctx context.Context, policy string) (*tasks.ShortsAggregator, error) {
	if policy == "" {
		policy = r.config.YouTube.FailurePolicy
	}
	p, err := tasks.ParseFailurePolicy(policy)
	if err != nil {
		return nil, err
	}
	if len(r.config.YouTube.Channels) == 0 {
		return nil, fmt.Errorf("%w: youtube.channels is empty", shared.ErrInvalidConfig)
	}

	platform, err := r.videoPlatform(ctx)
	if err != nil {
		return nil, err
	}

	return tasks.NewShortsAggregator(platform, tasks.AggregatorOpts{
		Channels:    r.config.YouTube.Channels,
		Concurrency: r.config.YouTube.Concurrency,
		Policy:      p,
		Logger:      r.logger,
	}), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		if _, err := r.output.Write([]byte("\n")); err != nil {
			return fmt.Errorf("failed to write newline: %w", err)
		}
	}
	return nil
}

// logProgress drains progress updates into the logger until the channel is closed, then closes done.
func (r *Runner) logProgress(progress <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	defer close(done)
	for update := range progress {
		switch update.Phase {
		case tasks.ChannelFailed:
			r.logger.Warn(update.Message)
		default:
			r.logger.Info(update.Message)
		}
	}
}
