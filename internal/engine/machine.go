package engine

import (
	"time"

	"github.com/aharlow/nowbar/internal/playback"
)

// State identifies a polling session state.
type State int

const (
	StateIdle State = iota
	StateActive
	StatePauseGrace
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StatePauseGrace:
		return "pause-grace"
	default:
		return "unknown"
	}
}

// Poll cadence policy.
const (
	// minInterval is the floor for any computed poll delay.
	minInterval = 3 * time.Second
	// endingInterval applies when the track is about to end.
	endingInterval = 3 * time.Second
	// closingInterval applies in the final half minute.
	closingInterval = 8 * time.Second
	// defaultInterval is the steady-state cadence.
	defaultInterval = 20 * time.Second
	// longTrackInterval applies when more than three minutes remain.
	longTrackInterval = 25 * time.Second
	// graceInterval is the fixed cadence while in pause grace.
	graceInterval = 5 * time.Second
	// maxBackoff caps the error backoff.
	maxBackoff = 30 * time.Second
)

const (
	// backoffAfter is how many consecutive failures are tolerated before
	// the interval starts doubling.
	backoffAfter = 3
	// pauseGraceLimit is how many consecutive non-playing observations
	// confirm that playback stopped.
	pauseGraceLimit = 3
	// rebaseThresholdMs is the divergence between server and extrapolated
	// progress that forces a rebase.
	rebaseThresholdMs = 5000
	// overrunThresholdMs is how far the extrapolation may run ahead of the
	// server before drift correction rebases it.
	overrunThresholdMs = 2000
)

// Action tells the driver what to do after a transition.
type Action struct {
	State        State
	Poll         bool          // schedule another poll
	Seq          uint64        // sequence number of the scheduled poll
	PollIn       time.Duration // delay before the scheduled poll
	Rebased      bool          // the extrapolation basis was replaced
	TrackChanged bool          // the rebase was caused by a track change
	Stale        bool          // the applied result was ignored as stale
}

// Machine is the pure polling state machine. It owns no timers; callers
// drive it with [Machine.Start] and [Machine.Apply] and act on the returned
// [Action].
//
// Machine is not safe for concurrent use; it is designed to be owned by a
// single driver goroutine.
type Machine struct {
	state      State
	seq        uint64
	interval   time.Duration
	failures   int
	notPlaying int
	trackID    string
	clock      *Clock
}

// NewMachine creates a machine in [StateIdle].
func NewMachine() *Machine {
	return &Machine{interval: defaultInterval}
}

// State returns the current session state.
func (m *Machine) State() State {
	return m.state
}

// Clock returns the current extrapolation basis, or nil when nothing is
// playing.
func (m *Machine) Clock() *Clock {
	return m.clock
}

// Failures returns the consecutive fetch-failure count.
func (m *Machine) Failures() int {
	return m.failures
}

// Start begins a polling session with an immediate first poll.
func (m *Machine) Start(now time.Time) Action {
	m.state = StateActive
	m.seq++
	m.failures = 0
	m.notPlaying = 0
	m.interval = defaultInterval

	return Action{State: m.state, Poll: true, Seq: m.seq, PollIn: 0}
}

// Stop ends the session, discarding the extrapolation basis.
func (m *Machine) Stop() {
	m.state = StateIdle
	m.clock = nil
	m.trackID = ""
}

// Apply feeds a poll result (or failure) into the machine.
//
// Results whose seq is not the most recently scheduled poll are ignored:
// last-scheduled-wins, so a slow response cannot overwrite fresher state.
func (m *Machine) Apply(now time.Time, seq uint64, status playback.Status, err error) Action {
	if m.state == StateIdle || seq != m.seq {
		return Action{State: m.state, Stale: true}
	}

	if err != nil {
		return m.applyError()
	}

	m.failures = 0

	if !status.IsPlaying {
		return m.applyNotPlaying()
	}

	return m.applyPlaying(now, status)
}

// applyError keeps polling at the current cadence, doubling it (capped)
// once more than backoffAfter consecutive failures accumulate. The
// pause-grace counter is deliberately left untouched.
func (m *Machine) applyError() Action {
	m.failures++

	if m.failures > backoffAfter {
		m.interval = m.interval * 2
		if m.interval > maxBackoff {
			m.interval = maxBackoff
		}
	}

	m.seq++
	return Action{State: m.state, Poll: true, Seq: m.seq, PollIn: m.interval}
}

// applyNotPlaying counts consecutive non-playing observations; the session
// idles once pauseGraceLimit is reached, guarding against a single stale
// "paused" reading mid-playback.
func (m *Machine) applyNotPlaying() Action {
	m.notPlaying++

	if m.notPlaying >= pauseGraceLimit {
		m.Stop()
		return Action{State: StateIdle}
	}

	m.state = StatePauseGrace
	m.seq++
	return Action{State: m.state, Poll: true, Seq: m.seq, PollIn: graceInterval}
}

func (m *Machine) applyPlaying(now time.Time, status playback.Status) Action {
	m.state = StateActive
	m.notPlaying = 0

	duration := status.DurationMs
	if duration <= 0 {
		duration = playback.DefaultDurationMs
	}

	trackID := ""
	if status.Track != nil {
		trackID = status.Track.ID
	}
	trackChanged := m.trackID != "" && trackID != m.trackID

	rebase := trackChanged || m.clock == nil
	if !rebase {
		extrapolated := m.clock.raw(now)
		diff := status.ProgressMs - extrapolated
		if diff < 0 {
			diff = -diff
		}
		overrun := extrapolated - status.ProgressMs
		rebase = diff > rebaseThresholdMs || overrun > overrunThresholdMs
	}

	if rebase {
		m.clock = NewClock(now, status.ProgressMs, duration)
	}
	m.trackID = trackID

	m.interval = intervalFor(duration - status.ProgressMs)
	m.seq++

	return Action{
		State:        m.state,
		Poll:         true,
		Seq:          m.seq,
		PollIn:       m.interval,
		Rebased:      rebase,
		TrackChanged: trackChanged,
	}
}

// intervalFor picks the poll delay from the time remaining in the track.
// Exactly 180s remaining takes the default bucket, not the long-track one.
func intervalFor(remainingMs int) time.Duration {
	remaining := time.Duration(remainingMs) * time.Millisecond

	var interval time.Duration
	switch {
	case remaining < 10*time.Second:
		interval = endingInterval
	case remaining < 30*time.Second:
		interval = closingInterval
	case remaining > 180*time.Second:
		interval = longTrackInterval
	default:
		interval = defaultInterval
	}

	if interval < minInterval {
		interval = minInterval
	}
	return interval
}
