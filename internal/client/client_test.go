package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aharlow/nowbar/internal/shared"
)

func TestNewStatusClient(t *testing.T) {
	t.Run("requires a URL", func(t *testing.T) {
		if _, err := NewStatusClient("", nil); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		c, err := NewStatusClient("http://localhost:3000/", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.baseURL != "http://localhost:3000" {
			t.Errorf("expected trimmed base URL, got %q", c.baseURL)
		}
	})
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/status" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"success": true,
				"data": {"isPlaying": true, "progressMs": 10000, "durationMs": 200000,
					"track": {"id": "t1", "name": "Song", "durationMs": 200000},
					"message": "♫ Aaron is listening to: Song"},
				"timestamp": "2026-08-31T12:00:00Z"
			}`))
		}))
		defer srv.Close()

		c, err := NewStatusClient(srv.URL, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		status, err := c.Fetch(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !status.IsPlaying || status.ProgressMs != 10000 || status.DurationMs != 200000 {
			t.Errorf("unexpected status: %+v", status)
		}
		if status.Track == nil || status.Track.ID != "t1" {
			t.Errorf("unexpected track: %+v", status.Track)
		}
	})

	t.Run("non-2xx is an API error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusNotFound)
		}))
		defer srv.Close()

		c, _ := NewStatusClient(srv.URL, nil)
		if _, err := c.Fetch(ctx); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("5xx means the gateway is down", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		defer srv.Close()

		c, _ := NewStatusClient(srv.URL, nil)
		if _, err := c.Fetch(ctx); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("failure envelope is an API error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success": false, "error": "Failed to fetch Spotify data", "data": {"isPlaying": false, "track": null, "message": ""}, "timestamp": ""}`))
		}))
		defer srv.Close()

		c, _ := NewStatusClient(srv.URL, nil)
		if _, err := c.Fetch(ctx); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("unreachable gateway is an API error", func(t *testing.T) {
		c, _ := NewStatusClient("http://127.0.0.1:1", nil)
		if _, err := c.Fetch(ctx); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
