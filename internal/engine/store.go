package engine

import (
	"sync"
	"time"

	"github.com/aharlow/nowbar/internal/playback"
)

// Snapshot represents the latest data available to the widget.
type Snapshot struct {
	Status              playback.Status
	HasStatus           bool
	State               State
	Clock               *Clock // nil unless playback is being extrapolated
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the gateway has been unreachable for multiple
// polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// ProgressMs returns the position to display at now: the extrapolated value
// when a clock exists, the last server-reported position otherwise.
func (s Snapshot) ProgressMs(now time.Time) int {
	if s.Clock != nil {
		return s.Clock.ProgressMs(now)
	}
	return s.Status.ProgressMs
}

// Store coordinates snapshot handoff from the poller to the render loop.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update merges a poll result into the stored snapshot. When err is non-nil
// the previous status is kept but the error and failure count are recorded.
func (s *Store) Update(state State, clock *Clock, status playback.Status, hasStatus bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.State = state
	s.snapshot.LastUpdated = time.Now()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Status = status
	s.snapshot.HasStatus = hasStatus
	s.snapshot.Clock = clock
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
