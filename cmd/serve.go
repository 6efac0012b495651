package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/aharlow/nowbar/internal/gateway"
	"github.com/aharlow/nowbar/internal/server"
	"github.com/aharlow/nowbar/internal/shared"
	"github.com/aharlow/nowbar/internal/spotify"
)

// Serve runs the now-playing gateway: a rate-limited HTTP server exposing the
// cached, normalized status endpoint.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	config := r.loadConfig(configPath)

	if port := cmd.Int("port"); port != 0 {
		config.Gateway.Port = int(port)
	}

	if config.Credentials.Spotify.ClientID == "" || config.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in %s", shared.ErrMissingCredentials, configPath)
	}

	db, store, err := r.openTokenStore(config)
	if err != nil {
		return err
	}
	defer db.Close()

	creds, err := r.credentials(config, store)
	if err != nil {
		return fmt.Errorf("failed to create credentials: %w", err)
	}

	service := gateway.NewService(spotify.NewClient(creds, r.httpClient), config.Owner.Name, r.logger)
	handler := gateway.NewStatusHandler(service, r.logger)

	router := server.NewBasicRouter()
	router.Use(
		server.RequestLogger(r.logger),
		server.RateLimit(config.Gateway.RateLimit, config.Gateway.RateBurst),
	)
	router.Handler(handler)

	srv := &http.Server{
		Addr:         config.Gateway.Addr(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("gateway listening", "addr", srv.Addr, "owner", config.Owner.Name)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("gateway server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	r.logger.Info("shutting down gateway")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("gateway shutdown failed: %w", err)
	}
	return nil
}
