// Package client implements the HTTP client the widget uses to query the
// gateway's status endpoint.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aharlow/nowbar/internal/gateway"
	"github.com/aharlow/nowbar/internal/playback"
	"github.com/aharlow/nowbar/internal/shared"
)

// defaultTimeout bounds a single status fetch so a hung request can't stall
// the poll loop past its next tick.
const defaultTimeout = 10 * time.Second

// StatusClient fetches normalized playback status from a gateway instance.
type StatusClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewStatusClient creates a client for the gateway at baseURL.
//
// A nil httpClient gets a default with a request timeout.
func NewStatusClient(baseURL string, httpClient *http.Client) (*StatusClient, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: gateway URL is required", shared.ErrInvalidArgument)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid gateway URL: %v", shared.ErrInvalidArgument, err)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &StatusClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// Fetch retrieves the current playback status from the gateway.
func (c *StatusClient) Fetch(ctx context.Context) (playback.Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/status", nil)
	if err != nil {
		return playback.Status{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return playback.Status{}, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return playback.Status{}, fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return playback.Status{}, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var env gateway.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return playback.Status{}, fmt.Errorf("failed to decode status envelope: %w", err)
	}

	if !env.Success {
		return playback.Status{}, fmt.Errorf("%w: %s", shared.ErrAPIRequest, env.Error)
	}

	return env.Data, nil
}
