package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aharlow/nowbar/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// TokenProvider yields a currently valid bearer token, refreshing if needed.
//
// [Credentials] is the production implementation.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client wraps the Spotify player endpoints consumed by the gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenProvider
}

// NewClient creates a player API client using the given token provider.
//
// A nil httpClient falls back to [http.DefaultClient].
func NewClient(tokens TokenProvider, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    spotifyBaseURL,
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// doRequest performs an authenticated GET against the Spotify API.
//
// Returns (false, nil) on 204 No Content without touching result.
func (c *Client) doRequest(ctx context.Context, endpoint string, result any) (bool, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return false, nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return false, fmt.Errorf("%w: upstream rejected the access token", shared.ErrTokenExpired)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("%w: status %d", shared.ErrUpstream, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return false, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return true, nil
}

// CurrentlyPlaying retrieves the owner's current playback state.
//
// Returns (nil, nil) when Spotify reports no content (nothing playing).
func (c *Client) CurrentlyPlaying(ctx context.Context) (*CurrentlyPlaying, error) {
	var current CurrentlyPlaying
	ok, err := c.doRequest(ctx, "/me/player/currently-playing", &current)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &current, nil
}

// RecentlyPlayed retrieves the owner's most recent listens, newest first.
//
// Limit is clamped to Spotify's 1..50 range and defaults to 1.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) (*RecentlyPlayed, error) {
	if limit <= 0 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	var recent RecentlyPlayed
	ok, err := c.doRequest(ctx, fmt.Sprintf("/me/player/recently-played?limit=%d", limit), &recent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &recent, nil
}
