package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/studyhub/internal/server"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

// Serve starts the HTTP API and blocks until SIGINT or SIGTERM, then drains in-flight requests.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if port := cmd.Int("port"); port != 0 {
		r.config.Server.Port = port
	}
	if host := cmd.String("host"); host != "" {
		r.config.Server.Host = host
	}
	if err := r.config.Validate(); err != nil {
		return err
	}

	handler, err := r.apiHandler(ctx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewHTTPServer(r.config, handler)
	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("listening", "addr", srv.Addr, "channels", len(r.config.YouTube.Channels))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// apiHandler wires the aggregator and the store reader into the API router.
func (r *Runner) apiHandler(ctx context.Context) (http.Handler, error) {
	agg, err := r.aggregator(ctx, "")
	if err != nil {
		return nil, err
	}
	reader, err := r.reader(ctx)
	if err != nil {
		return nil, err
	}

	return server.NewRouter(server.Options{
		Shorts:    agg,
		Playlists: reader,
		Logger:    r.logger,
	}), nil
}
