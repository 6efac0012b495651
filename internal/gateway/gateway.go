package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aharlow/nowbar/internal/playback"
	"github.com/aharlow/nowbar/internal/shared"
	"github.com/aharlow/nowbar/internal/spotify"
	"github.com/charmbracelet/log"
)

// Per-branch cache lifetimes. Playing status goes stale fastest; an empty
// account can be cached the longest.
const (
	PlayingTTL = 3 * time.Second
	RecentTTL  = 9 * time.Second
	IdleTTL    = 15 * time.Second
)

// Source is the upstream player API surface the gateway consumes.
//
// [spotify.Client] is the production implementation.
type Source interface {
	CurrentlyPlaying(ctx context.Context) (*spotify.CurrentlyPlaying, error)
	RecentlyPlayed(ctx context.Context, limit int) (*spotify.RecentlyPlayed, error)
}

type cacheEntry struct {
	status playback.Status
	expiry time.Time
}

// Service answers playback status queries through a single-slot cache.
//
// Construct with [NewService]; the zero value is not usable.
type Service struct {
	source Source
	owner  string
	logger *log.Logger
	now    func() time.Time

	mu    sync.Mutex
	cache *cacheEntry
}

// NewService creates a gateway service over the given upstream source.
//
// Owner is the display name used in status messages. A nil logger falls back
// to the shared default.
func NewService(source Source, owner string, logger *log.Logger) *Service {
	if owner == "" {
		owner = "Someone"
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Service{
		source: source,
		owner:  owner,
		logger: logger,
		now:    time.Now,
	}
}

// SetNow overrides the service clock. Used by tests to exercise TTL
// boundaries.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}

// Status returns the current normalized playback status.
//
// Status never returns an error: every upstream failure, including a failed
// credential refresh, degrades to a safe "temporarily unavailable" status.
func (s *Service) Status(ctx context.Context) playback.Status {
	s.mu.Lock()
	if s.cache != nil && s.now().Before(s.cache.expiry) {
		cached := s.cache.status
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	status, ttl, err := s.fetch(ctx)
	if err != nil {
		s.logger.Error("status fetch failed", "error", err)
		return playback.Status{
			IsPlaying: false,
			Track:     nil,
			Message:   "Unable to fetch Spotify data at the moment",
		}
	}

	s.mu.Lock()
	s.cache = &cacheEntry{status: status, expiry: s.now().Add(ttl)}
	s.mu.Unlock()

	return status
}

// fetch queries the upstream branches in order: currently playing, recently
// played, empty. Returns the status and the TTL for the branch taken.
func (s *Service) fetch(ctx context.Context) (playback.Status, time.Duration, error) {
	current, err := s.source.CurrentlyPlaying(ctx)
	if err != nil {
		return playback.Status{}, 0, fmt.Errorf("currently playing: %w", err)
	}

	if current != nil && current.IsPlaying && current.Item != nil {
		return s.playingStatus(current), PlayingTTL, nil
	}

	recent, err := s.source.RecentlyPlayed(ctx, 1)
	if err != nil {
		return playback.Status{}, 0, fmt.Errorf("recently played: %w", err)
	}

	if recent != nil && len(recent.Items) > 0 {
		return s.recentStatus(recent.Items[0]), RecentTTL, nil
	}

	return playback.Status{
		IsPlaying: false,
		Track:     nil,
		Message:   "No recent Spotify activity found",
	}, IdleTTL, nil
}

func (s *Service) playingStatus(current *spotify.CurrentlyPlaying) playback.Status {
	track := current.Item.Normalize()

	progress := current.ProgressMs
	if progress < 0 {
		progress = 0
	}
	if progress > track.DurationMs {
		progress = track.DurationMs
	}

	return playback.Status{
		IsPlaying:  true,
		Track:      &track,
		ProgressMs: progress,
		DurationMs: track.DurationMs,
		Message:    fmt.Sprintf("♫ %s is listening to: %s by %s", s.owner, track.Name, track.ArtistNames()),
	}
}

func (s *Service) recentStatus(item spotify.RecentTrack) playback.Status {
	track := item.Track.Normalize()

	timeAgo := "just now"
	if playedAt, err := time.Parse(time.RFC3339, item.PlayedAt); err == nil {
		timeAgo = playback.RelativeSince(s.now().Sub(playedAt))
	} else {
		s.logger.Warn("unparseable played_at timestamp", "value", item.PlayedAt)
	}

	// A finished track shows a full bar.
	return playback.Status{
		IsPlaying:    false,
		Track:        &track,
		ProgressMs:   track.DurationMs,
		DurationMs:   track.DurationMs,
		LastPlayedAt: item.PlayedAt,
		Message:      fmt.Sprintf("♫ %s last played: %s by %s (%s)", s.owner, track.Name, track.ArtistNames(), timeAgo),
	}
}
