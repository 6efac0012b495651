package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/aharlow/nowbar/internal/server"
	"github.com/aharlow/nowbar/internal/shared"
)

// authTimeout bounds how long the flow waits for the browser callback.
const authTimeout = 2 * time.Minute

// Auth performs the OAuth2 authorization code flow for Spotify.
//
// Starts a local HTTP server on the configured redirect URI, opens the
// browser for user authorization, then persists the exchanged tokens to both
// the token store and the config file.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	config := r.loadConfig(configPath)

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

	state, err := shared.GenerateState()
	if err != nil {
		return fmt.Errorf("failed to generate state token: %w", err)
	}

	addr, err := callbackAddr(config.Credentials.Spotify.RedirectURI)
	if err != nil {
		return err
	}

	handler := server.NewOAuthHandler(creds.OAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Handler(handler)

	srv := &http.Server{Addr: addr, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("callback server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	authURL := creds.AuthURL(state)
	r.writePlain("Opening browser for Spotify authorization...\n")
	r.writePlain("If it does not open, visit:\n%s\n", authURL)

	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser %v", err)
	}

	select {
	case result := <-handler.Result():
		if result.Error() != nil {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
		}

		creds.Adopt(ctx, result.Token)

		config.Credentials.Spotify.AccessToken = result.Token.AccessToken
		if result.Token.RefreshToken != "" {
			config.Credentials.Spotify.RefreshToken = result.Token.RefreshToken
		}
		if !result.Token.Expiry.IsZero() {
			config.Credentials.Spotify.TokenExpiry = result.Token.Expiry.Unix()
		}

		if err := shared.SaveConfig(configPath, config); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		r.writePlainln("✓ Authorization successful")
		r.writePlain("✓ Tokens saved to %s\n\n", configPath)
		r.writePlain("You can now run: nowbar serve\n")
		return nil

	case <-time.After(authTimeout):
		return fmt.Errorf("%w: no callback received within %v", shared.ErrTimeout, authTimeout)

	case <-ctx.Done():
		return ctx.Err()
	}
}

// callbackAddr derives the listen address from the redirect URI, defaulting
// to port 80 when none is given.
func callbackAddr(redirectURI string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: invalid redirect_uri %q", shared.ErrInvalidConfig, redirectURI)
	}

	port := u.Port()
	if port == "" {
		port = "80"
	}
	return ":" + port, nil
}
