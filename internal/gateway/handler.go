package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aharlow/nowbar/internal/playback"
	"github.com/aharlow/nowbar/internal/shared"
	"github.com/charmbracelet/log"
)

// Envelope is the JSON wrapper served by the status endpoint.
type Envelope struct {
	Success   bool            `json:"success"`
	Data      playback.Status `json:"data"`
	Timestamp string          `json:"timestamp"`
	Error     string          `json:"error,omitempty"`
}

// StatusHandler serves the gateway's read endpoint.
//
// Implements [server.Handler].
type StatusHandler struct {
	service *Service
	logger  *log.Logger
}

// NewStatusHandler creates the /api/status handler over a gateway service.
func NewStatusHandler(service *Service, logger *log.Logger) *StatusHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &StatusHandler{service: service, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *StatusHandler) Routes() []string {
	return []string{"/api/status"}
}

// ServeHTTP answers with the envelope and short edge-cache headers.
//
// Handled upstream failures still answer 200 with a fallback status; only a
// fault inside the handler itself produces a 500.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("status handler panic", "panic", rec)
			h.writeEnvelope(w, http.StatusInternalServerError, Envelope{
				Success: false,
				Error:   "Failed to fetch Spotify data",
				Data: playback.Status{
					IsPlaying: false,
					Track:     nil,
					Message:   "Spotify data temporarily unavailable",
				},
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
		}
	}()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := h.service.Status(ctx)

	w.Header().Set("Cache-Control", "public, max-age=3, s-maxage=3, stale-while-revalidate=10")
	w.Header().Set("CDN-Cache-Control", "max-age=3")
	w.Header().Set("Cloudflare-CDN-Cache-Control", "max-age=3, stale-while-revalidate=10")
	w.Header().Set("Vary", "Accept")

	h.writeEnvelope(w, http.StatusOK, Envelope{
		Success:   true,
		Data:      status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *StatusHandler) writeEnvelope(w http.ResponseWriter, code int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		h.logger.Error("failed to encode envelope", "error", err)
	}
}
