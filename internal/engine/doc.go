// Package engine implements the client-side sync engine: the polling state
// machine and progress extrapolation that keep the widget's progress bar
// moving smoothly while only sampling the gateway intermittently.
//
// # State Machine
//
// [Machine] is a pure transition core with three states:
//
//  1. [StateIdle] : no poll scheduled; entered at startup, on Stop, and when
//     the pause grace runs out
//  2. [StateActive] : a poll is scheduled; each applied result picks the next
//     delay adaptively from the time remaining in the track
//  3. [StatePauseGrace] : a poll reported "not playing"; polling continues at
//     a fixed cadence until three consecutive non-playing observations
//     confirm playback really stopped
//
// Machine holds no timers. [Machine.Start] and [Machine.Apply] return an
// [Action] describing what the caller should do next (schedule a poll in d,
// or nothing), which makes the adaptive-interval, backoff, and rebase
// policies testable with plain clock values.
//
// Every scheduled poll carries a sequence number. Apply ignores results
// whose sequence is not the one most recently scheduled, so a slow response
// landing after a newer poll cannot clobber fresher state
// (last-scheduled-wins).
//
// # Extrapolation
//
// [Clock] is the animation basis: a server-reported position paired with the
// wall-clock instant it was observed. Displayed progress is always derived
// as min(base + elapsed, duration) rather than stored as a counter, so
// drift cannot accumulate. A sync replaces the Clock only when the rebase
// policy fires: track change, divergence beyond 5s, or the extrapolation
// overrunning the server position by more than 2s.
//
// # Driver
//
// [Poller] runs a Machine against a real fetcher in a single goroutine,
// publishing [Snapshot] values through a [Store] for the UI to render.
// Cancelling the context tears down the timer and the goroutine.
package engine
