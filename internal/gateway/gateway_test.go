package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aharlow/nowbar/internal/spotify"
)

// fakeSource scripts upstream responses and counts calls.
type fakeSource struct {
	current     *spotify.CurrentlyPlaying
	currentErr  error
	recent      *spotify.RecentlyPlayed
	recentErr   error
	currentHits int
	recentHits  int
}

func (f *fakeSource) CurrentlyPlaying(ctx context.Context) (*spotify.CurrentlyPlaying, error) {
	f.currentHits++
	return f.current, f.currentErr
}

func (f *fakeSource) RecentlyPlayed(ctx context.Context, limit int) (*spotify.RecentlyPlayed, error) {
	f.recentHits++
	return f.recent, f.recentErr
}

func playingSource(progressMs, durationMs int) *fakeSource {
	return &fakeSource{
		current: &spotify.CurrentlyPlaying{
			IsPlaying:  true,
			ProgressMs: progressMs,
			Item: &spotify.Track{
				ID:         "track-1",
				Name:       "Song",
				Artists:    []spotify.Artist{{Name: "Artist"}},
				DurationMS: durationMs,
			},
		},
	}
}

// testClock is an adjustable clock for TTL boundary tests.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(source Source) (*Service, *testClock) {
	svc := NewService(source, "Aaron", nil)
	clock := &testClock{now: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)}
	svc.SetNow(clock.Now)
	return svc, clock
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("playing branch", func(t *testing.T) {
		source := playingSource(10000, 200000)
		svc, _ := newTestService(source)

		status := svc.Status(ctx)

		if !status.IsPlaying {
			t.Error("expected playing status")
		}
		if status.ProgressMs != 10000 || status.DurationMs != 200000 {
			t.Errorf("unexpected progress: %d/%d", status.ProgressMs, status.DurationMs)
		}
		if status.Track == nil || status.Track.ID != "track-1" {
			t.Errorf("unexpected track: %+v", status.Track)
		}
		if want := "♫ Aaron is listening to: Song by Artist"; status.Message != want {
			t.Errorf("message = %q, want %q", status.Message, want)
		}
		if status.LastPlayedAt != "" {
			t.Error("lastPlayedAt must be empty while playing")
		}
	})

	t.Run("progress clamped to duration", func(t *testing.T) {
		source := playingSource(205000, 200000)
		svc, _ := newTestService(source)

		status := svc.Status(ctx)
		if status.ProgressMs > status.DurationMs {
			t.Errorf("invariant violated: progress %d > duration %d", status.ProgressMs, status.DurationMs)
		}
	})

	t.Run("cache TTL boundary", func(t *testing.T) {
		source := playingSource(10000, 200000)
		svc, clock := newTestService(source)

		svc.Status(ctx)
		if source.currentHits != 1 {
			t.Fatalf("expected one upstream call, got %d", source.currentHits)
		}

		clock.Advance(2999 * time.Millisecond)
		svc.Status(ctx)
		if source.currentHits != 1 {
			t.Errorf("expected cached response at 2999ms, got %d upstream calls", source.currentHits)
		}

		clock.Advance(2 * time.Millisecond) // 3001ms total
		svc.Status(ctx)
		if source.currentHits != 2 {
			t.Errorf("expected fresh upstream call at 3001ms, got %d calls", source.currentHits)
		}
	})

	t.Run("idempotent within cache window", func(t *testing.T) {
		source := playingSource(10000, 200000)
		svc, _ := newTestService(source)

		first, err := json.Marshal(svc.Status(ctx))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		second, err := json.Marshal(svc.Status(ctx))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		if string(first) != string(second) {
			t.Errorf("expected identical payloads within cache window:\n%s\n%s", first, second)
		}
	})

	t.Run("recently played branch", func(t *testing.T) {
		clockStart := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
		source := &fakeSource{
			recent: &spotify.RecentlyPlayed{Items: []spotify.RecentTrack{{
				PlayedAt: clockStart.Add(-5 * time.Minute).Format(time.RFC3339),
				Track: spotify.Track{
					ID:         "r1",
					Name:       "Earlier",
					Artists:    []spotify.Artist{{Name: "Band"}},
					DurationMS: 120000,
				},
			}}},
		}
		svc, _ := newTestService(source)

		status := svc.Status(ctx)

		if status.IsPlaying {
			t.Error("expected non-playing status")
		}
		if status.ProgressMs != 120000 || status.DurationMs != 120000 {
			t.Errorf("expected full bar for a finished track, got %d/%d", status.ProgressMs, status.DurationMs)
		}
		if status.LastPlayedAt == "" {
			t.Error("expected lastPlayedAt to be set")
		}
		if want := "♫ Aaron last played: Earlier by Band (5 minutes ago)"; status.Message != want {
			t.Errorf("message = %q, want %q", status.Message, want)
		}
	})

	t.Run("recent branch uses 9s TTL", func(t *testing.T) {
		source := &fakeSource{
			recent: &spotify.RecentlyPlayed{Items: []spotify.RecentTrack{{
				PlayedAt: "2026-08-31T11:00:00Z",
				Track:    spotify.Track{ID: "r1", DurationMS: 120000},
			}}},
		}
		svc, clock := newTestService(source)

		svc.Status(ctx)
		clock.Advance(8 * time.Second)
		svc.Status(ctx)
		if source.currentHits != 1 {
			t.Errorf("expected cache hit at 8s, got %d upstream calls", source.currentHits)
		}

		clock.Advance(2 * time.Second)
		svc.Status(ctx)
		if source.currentHits != 2 {
			t.Errorf("expected refetch after 9s, got %d upstream calls", source.currentHits)
		}
	})

	t.Run("no activity branch uses 15s TTL", func(t *testing.T) {
		source := &fakeSource{recent: &spotify.RecentlyPlayed{}}
		svc, clock := newTestService(source)

		status := svc.Status(ctx)
		if status.Track != nil || status.IsPlaying {
			t.Errorf("expected empty status, got %+v", status)
		}
		if status.Message != "No recent Spotify activity found" {
			t.Errorf("unexpected message %q", status.Message)
		}

		clock.Advance(14 * time.Second)
		svc.Status(ctx)
		if source.currentHits != 1 {
			t.Errorf("expected cache hit at 14s, got %d upstream calls", source.currentHits)
		}

		clock.Advance(2 * time.Second)
		svc.Status(ctx)
		if source.currentHits != 2 {
			t.Errorf("expected refetch after 15s, got %d upstream calls", source.currentHits)
		}
	})

	t.Run("upstream failure degrades to fallback", func(t *testing.T) {
		source := &fakeSource{currentErr: errors.New("boom")}
		svc, _ := newTestService(source)

		status := svc.Status(ctx)
		if status.IsPlaying || status.Track != nil {
			t.Errorf("expected empty fallback, got %+v", status)
		}
		if status.Message != "Unable to fetch Spotify data at the moment" {
			t.Errorf("unexpected fallback message %q", status.Message)
		}

		// errors are not cached; the next call retries upstream
		svc.Status(ctx)
		if source.currentHits != 2 {
			t.Errorf("expected retry on next call, got %d upstream calls", source.currentHits)
		}
	})

	t.Run("recently played failure degrades to fallback", func(t *testing.T) {
		source := &fakeSource{recentErr: fmt.Errorf("rate limited")}
		svc, _ := newTestService(source)

		status := svc.Status(ctx)
		if status.Message != "Unable to fetch Spotify data at the moment" {
			t.Errorf("unexpected fallback message %q", status.Message)
		}
	})

	t.Run("paused playback falls through to recent", func(t *testing.T) {
		source := &fakeSource{
			current: &spotify.CurrentlyPlaying{IsPlaying: false, Item: &spotify.Track{ID: "x"}},
			recent: &spotify.RecentlyPlayed{Items: []spotify.RecentTrack{{
				PlayedAt: "2026-08-31T11:59:30Z",
				Track:    spotify.Track{ID: "r1", DurationMS: 60000},
			}}},
		}
		svc, _ := newTestService(source)

		status := svc.Status(ctx)
		if status.IsPlaying {
			t.Error("expected non-playing status for paused playback")
		}
		if source.recentHits != 1 {
			t.Errorf("expected recently played lookup, got %d", source.recentHits)
		}
	})
}
