package playback

import (
	"fmt"
	"time"
)

// DefaultDurationMs is assumed when the upstream omits a track duration.
const DefaultDurationMs = 180000

// Artist is a single credited artist on a track.
type Artist struct {
	Name string `json:"name"`
}

// Album carries the album name only; the widget has no use for artwork.
type Album struct {
	Name string `json:"name"`
}

// Track is the normalized track shape served to widget clients.
type Track struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	Album       Album    `json:"album"`
	ExternalURL string   `json:"externalUrl"`
	DurationMs  int      `json:"durationMs"`
}

// ArtistNames joins the credited artists for display ("A, B").
func (t Track) ArtistNames() string {
	names := ""
	for i, a := range t.Artists {
		if i > 0 {
			names += ", "
		}
		names += a.Name
	}
	return names
}

// Status is a normalized snapshot of the owner's playback state.
//
// ProgressMs never exceeds DurationMs in a gateway response; client-side
// extrapolation may transiently exceed it and clamps at display time.
type Status struct {
	IsPlaying    bool   `json:"isPlaying"`
	Track        *Track `json:"track"`
	ProgressMs   int    `json:"progressMs,omitempty"`
	DurationMs   int    `json:"durationMs,omitempty"`
	LastPlayedAt string `json:"lastPlayedAt,omitempty"` // RFC3339; only set when not playing
	Message      string `json:"message"`
}

// Percent returns playback progress as a percentage clamped to [0,100].
//
// A zero duration yields 0 rather than dividing by zero.
func (s Status) Percent() float64 {
	return Percent(s.ProgressMs, s.DurationMs)
}

// Percent computes progressMs/durationMs as a percentage clamped to [0,100].
func Percent(progressMs, durationMs int) float64 {
	if durationMs <= 0 {
		return 0
	}
	pct := float64(progressMs) / float64(durationMs) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// FormatClock renders a millisecond position as m:ss, e.g. 65000 -> "1:05".
func FormatClock(ms int) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatClockPair renders "position / duration", e.g. "1:05 / 3:00".
func FormatClockPair(progressMs, durationMs int) string {
	return fmt.Sprintf("%s / %s", FormatClock(progressMs), FormatClock(durationMs))
}

// RelativeSince buckets an elapsed duration into a human-readable phrase:
// under a minute is "just now", then minutes, hours, and days with
// singular/plural handling.
func RelativeSince(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return pluralize(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return pluralize(int(d/time.Hour), "hour")
	default:
		return pluralize(int(d/(24*time.Hour)), "day")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
