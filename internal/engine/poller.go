package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/aharlow/nowbar/internal/playback"
	"github.com/aharlow/nowbar/internal/shared"
	"github.com/charmbracelet/log"
)

// Fetcher retrieves a playback status snapshot from the gateway.
//
// [client.StatusClient] is the production implementation.
type Fetcher interface {
	Fetch(ctx context.Context) (playback.Status, error)
}

// Poller drives a [Machine] with real timers in a single goroutine, so all
// machine and clock mutation is serialized without locks. At most one
// session is live per poller.
type Poller struct {
	fetcher Fetcher
	store   *Store
	logger  *log.Logger
	settle  time.Duration
	live    atomic.Bool
}

// NewPoller creates a poller publishing into store.
//
// Settle is the delay before the exploratory first fetch; a nil logger falls
// back to the shared default.
func NewPoller(fetcher Fetcher, store *Store, logger *log.Logger, settle time.Duration) *Poller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Poller{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
		settle:  settle,
	}
}

// Start launches the polling session in a background goroutine and returns
// immediately. While a session is live Start is a no-op, so a refresh
// arriving before the first poll publishes cannot spawn a second session.
// The session ends when the machine idles out through pause grace or the
// context is cancelled; either way no timers are left behind.
func (p *Poller) Start(ctx context.Context) {
	if !p.live.CompareAndSwap(false, true) {
		return
	}

	go func() {
		defer p.live.Store(false)
		p.run(ctx)
	}()
}

func (p *Poller) run(ctx context.Context) {
	if p.settle > 0 {
		if !sleep(ctx, p.settle) {
			return
		}
	}

	machine := NewMachine()
	action := machine.Start(time.Now())

	for action.Poll {
		if !sleep(ctx, action.PollIn) {
			return
		}

		status, err := p.fetcher.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("status poll failed", "error", err, "failures", machine.Failures()+1)
		}

		now := time.Now()
		action = machine.Apply(now, action.Seq, status, err)

		p.store.Update(action.State, machine.Clock(), status, err == nil && !action.Stale, err)

		if action.TrackChanged {
			p.logger.Info("track changed", "message", status.Message)
		}
	}

	p.logger.Info("polling session idle")
}

// sleep waits for d or until the context is cancelled, reporting whether the
// full delay elapsed. A non-positive delay returns immediately.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
