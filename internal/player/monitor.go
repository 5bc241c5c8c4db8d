package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// ErrMonitorPoll marks a metadata poll failure. It is non-fatal: playback
// continues, the monitor just has no titles to show. The monitor reports it
// once in a Failed status and then stays quiet until the next session starts.
var ErrMonitorPoll = errors.New("now-playing poll failed")

// pollFailureLimit is how many consecutive poll errors a session gets before
// its metadata channel is written off. mpv binds the IPC socket a moment
// after the process starts, so the first polls of a healthy session can fail.
const pollFailureLimit = 3

// Status is one monitor observation handed to the render loop.
type Status struct {
	Snapshot   Snapshot
	NowPlaying string
	Elapsed    time.Duration
}

// Monitor polls the supervisor while a session is active and publishes
// snapshots through a single-slot channel: the newest status replaces an
// unread one, so the render loop never sees a backlog. While the session is
// idle the monitor parks on the supervisor's event channel and costs
// nothing.
type Monitor struct {
	sup      *Supervisor
	interval time.Duration
	log      *log.Logger
	updates  chan Status
}

// NewMonitor creates a monitor polling at interval (default one second).
func NewMonitor(sup *Supervisor, interval time.Duration, logger *log.Logger) *Monitor {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Monitor{
		sup:      sup,
		interval: interval,
		log:      logger,
		updates:  make(chan Status, 1),
	}
}

// Updates is the status handoff consumed by the UI.
func (m *Monitor) Updates() <-chan Status { return m.updates }

// Run drives the poll loop until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	// Failures are reported once per session: reportedFailed covers a
	// Failed supervisor state, pollFailedAt pins a session whose metadata
	// channel broke while the process kept running. pollErrs counts
	// consecutive poll errors within the session tracked by pollSession.
	reportedFailed := false
	var pollFailedAt time.Time
	var pollSession time.Time
	pollErrs := 0

	for {
		snap := m.sup.Snapshot()
		switch snap.State {
		case Idle:
			reportedFailed = false
			pollFailedAt = time.Time{}
			if !m.park(ctx) {
				return
			}
			continue
		case Failed:
			if !reportedFailed {
				reportedFailed = true
				m.publish(Status{Snapshot: snap})
			}
			if !m.park(ctx) {
				return
			}
			continue
		}

		if snap.State == Playing && !pollFailedAt.IsZero() && snap.StartedAt.Equal(pollFailedAt) {
			// This session's status channel already broke; stay quiet
			// until a new session starts.
			if !m.park(ctx) {
				return
			}
			continue
		}

		status := Status{Snapshot: snap}
		if snap.State == Playing {
			if !snap.StartedAt.Equal(pollSession) {
				pollSession = snap.StartedAt
				pollErrs = 0
			}
			status.Elapsed = time.Since(snap.StartedAt)
			title, err := m.sup.NowPlaying()
			if err != nil {
				pollErrs++
				if pollErrs >= pollFailureLimit {
					pollFailedAt = snap.StartedAt
					status.Snapshot.State = Failed
					status.Snapshot.Err = fmt.Errorf("%w: %v", ErrMonitorPoll, err)
					m.publish(status)
					m.log.Warn("now-playing poll failed", "station", snap.Station.Name, "err", err)
					continue
				}
				// The IPC socket may not be up yet; publish without a title
				// and try again next tick.
			} else {
				pollErrs = 0
				status.NowPlaying = title
			}
		}
		m.publish(status)

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.interval):
		case <-m.sup.Events():
		}
	}
}

// park blocks until the supervisor changes state; false means ctx ended.
func (m *Monitor) park(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-m.sup.Events():
		return true
	}
}

func (m *Monitor) publish(status Status) {
	for {
		select {
		case m.updates <- status:
			return
		default:
			// Drop the stale unread status.
			select {
			case <-m.updates:
			default:
			}
		}
	}
}
