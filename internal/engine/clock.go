package engine

import "time"

// Clock is the extrapolation basis for the progress display: the last
// authoritative position and the wall-clock instant it was observed.
//
// A Clock is immutable after creation; a resync replaces it wholesale. That
// keeps it safe to hand to the render loop while the poller keeps running.
type Clock struct {
	baseMs     int
	base       time.Time
	durationMs int
}

// NewClock creates an extrapolation basis from an authoritative sync.
func NewClock(now time.Time, progressMs, durationMs int) *Clock {
	if progressMs < 0 {
		progressMs = 0
	}
	return &Clock{
		baseMs:     progressMs,
		base:       now,
		durationMs: durationMs,
	}
}

// ProgressMs returns the extrapolated position at now, clamped to the track
// duration.
func (c *Clock) ProgressMs(now time.Time) int {
	elapsed := int(now.Sub(c.base) / time.Millisecond)
	if elapsed < 0 {
		elapsed = 0
	}

	progress := c.baseMs + elapsed
	if progress > c.durationMs {
		return c.durationMs
	}
	return progress
}

// raw returns the unclamped extrapolated position. The rebase policy needs
// the real divergence, not the display value.
func (c *Clock) raw(now time.Time) int {
	elapsed := int(now.Sub(c.base) / time.Millisecond)
	if elapsed < 0 {
		elapsed = 0
	}
	return c.baseMs + elapsed
}

// DurationMs returns the track duration this basis was created with.
func (c *Clock) DurationMs() int {
	return c.durationMs
}

// Done reports whether the extrapolated position has reached the end of the
// track.
func (c *Clock) Done(now time.Time) bool {
	return c.raw(now) >= c.durationMs
}
