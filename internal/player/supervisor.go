package player

import (
	"fmt"
	"io"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"airtune/internal/radio"
)

// State is the lifecycle phase of the single playback session.
type State int

const (
	Idle State = iota
	Starting
	Playing
	Stopping
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Playing:
		return "playing"
	case Stopping:
		return "stopping"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// LaunchError reports that the player process could not be started.
// Non-fatal: the session becomes Failed and the user may try another station.
type LaunchError struct {
	Station radio.Station
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch player for %q: %v", e.Station.Name, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// TerminatedError reports that the player process exited while it was
// supposed to be playing. No automatic retry; restarting is a user action.
type TerminatedError struct {
	Station radio.Station
	Err     error
}

func (e *TerminatedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("playback of %q ended unexpectedly", e.Station.Name)
	}
	return fmt.Sprintf("playback of %q ended unexpectedly: %v", e.Station.Name, e.Err)
}

func (e *TerminatedError) Unwrap() error { return e.Err }

// Snapshot is a value copy of the session taken for display. Never a live
// reference; Err is only set while State is Failed.
type Snapshot struct {
	Station   radio.Station
	State     State
	Volume    int
	StartedAt time.Time
	Err       error
}

const (
	defaultStopGrace = 3 * time.Second
	defaultVolume    = 80
)

// Supervisor owns the lifecycle of at most one external player process.
// All access to the session goes through its methods; there is no shared
// session state anywhere else.
type Supervisor struct {
	spawner Spawner
	log     *log.Logger
	grace   time.Duration

	mu        sync.Mutex
	state     State
	station   radio.Station
	proc      Proc
	startedAt time.Time
	volume    int
	lastErr   error
	// pending holds at most one start requested while a stop drains;
	// the latest request wins.
	pending *radio.Station

	events chan struct{}
}

// NewSupervisor creates an idle supervisor. A nil logger discards output.
func NewSupervisor(spawner Spawner, logger *log.Logger) *Supervisor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Supervisor{
		spawner: spawner,
		log:     logger,
		grace:   defaultStopGrace,
		volume:  defaultVolume,
		events:  make(chan struct{}, 1),
	}
}

// Events delivers coalesced state-transition notifications. Consumers that
// miss an event still observe the latest state via Snapshot.
func (s *Supervisor) Events() <-chan struct{} { return s.events }

// Snapshot returns a copy of the current session for rendering.
func (s *Supervisor) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Station:   s.station,
		State:     s.state,
		Volume:    s.volume,
		StartedAt: s.startedAt,
		Err:       s.lastErr,
	}
}

// Start begins playback of station, preempting any active session. While a
// prior stop is draining the request is queued (one slot, latest wins) and
// applied once the drain completes, so two child processes never coexist.
func (s *Supervisor) Start(station radio.Station) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Stopping:
		s.pending = &station
		return nil
	case Starting, Playing:
		s.pending = &station
		s.beginStopLocked()
		return nil
	}
	return s.launchLocked(station)
}

// Stop terminates the active session: graceful signal, bounded wait, then a
// hard kill. It is idempotent and never returns an error; calling it on an
// idle supervisor is a no-op. A Failed session is reset to Idle.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = nil
	switch s.state {
	case Idle, Stopping:
		return
	case Failed:
		s.resetLocked()
		return
	}
	s.beginStopLocked()
}

// Shutdown stops the session and waits, bounded by twice the grace period,
// until the drain has finished. For the process-exit path, where nobody will
// read a later snapshot.
func (s *Supervisor) Shutdown() {
	s.Stop()
	deadline := time.Now().Add(2 * s.grace)
	for time.Now().Before(deadline) {
		if s.Snapshot().State == Idle {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// SetVolume clamps v to 0..100, records it for future launches and forwards
// it to the running process when the backend supports live control.
func (s *Supervisor) SetVolume(v int) {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = v
	if s.state != Playing || s.proc == nil {
		return
	}
	if vs, ok := s.proc.(VolumeSetter); ok {
		if err := vs.SetVolume(v); err != nil {
			s.log.Warn("volume control failed", "err", err)
		}
	}
}

// AdjustVolume shifts the volume by delta and returns the clamped result.
func (s *Supervisor) AdjustVolume(delta int) int {
	s.mu.Lock()
	v := s.volume + delta
	s.mu.Unlock()
	s.SetVolume(v)
	return s.Volume()
}

// Volume returns the current volume setting.
func (s *Supervisor) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// NowPlaying reads live metadata from the player process if it exposes any.
// An empty title with a nil error means the backend has nothing to report.
func (s *Supervisor) NowPlaying() (string, error) {
	s.mu.Lock()
	proc := s.proc
	state := s.state
	s.mu.Unlock()

	if state != Playing || proc == nil {
		return "", nil
	}
	tr, ok := proc.(TitleReader)
	if !ok {
		return "", nil
	}
	return tr.Title()
}

func (s *Supervisor) launchLocked(station radio.Station) error {
	s.state = Starting
	s.station = station
	s.startedAt = time.Time{}
	s.lastErr = nil
	s.notifyLocked()
	s.log.Info("starting player", "station", station.Name, "url", station.URL)

	proc, err := s.spawner.Spawn(station.URL, s.volume)
	if err != nil {
		lerr := &LaunchError{Station: station, Err: err}
		s.state = Failed
		s.proc = nil
		s.lastErr = lerr
		s.notifyLocked()
		s.log.Error("player launch failed", "station", station.Name, "err", err)
		return lerr
	}

	s.proc = proc
	s.state = Playing
	s.startedAt = time.Now()
	s.notifyLocked()
	go s.watch(proc, station)
	return nil
}

// watch observes the child's exit. An exit that was not requested marks the
// session Failed; a drain in progress owns the exit instead.
func (s *Supervisor) watch(proc Proc, station radio.Station) {
	<-proc.Done()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc != proc {
		return
	}
	s.proc = nil
	if s.state == Playing || s.state == Starting {
		s.state = Failed
		s.lastErr = &TerminatedError{Station: station, Err: proc.Err()}
		s.notifyLocked()
		s.log.Warn("player exited unexpectedly", "station", station.Name, "err", proc.Err())
	}
}

func (s *Supervisor) beginStopLocked() {
	proc := s.proc
	station := s.station
	s.state = Stopping
	s.notifyLocked()
	if proc == nil {
		s.finishStopLocked()
		return
	}
	go s.drain(proc, station)
}

// drain runs off the lock: terminate, wait up to the grace period, kill.
func (s *Supervisor) drain(proc Proc, station radio.Station) {
	_ = proc.Signal(syscall.SIGTERM)
	select {
	case <-proc.Done():
	case <-time.After(s.grace):
		s.log.Warn("player ignored terminate, killing", "station", station.Name)
		_ = proc.Kill()
		select {
		case <-proc.Done():
		case <-time.After(s.grace):
			// Progress over cleanliness: stop must not block forever.
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == proc {
		s.proc = nil
	}
	if s.state != Stopping {
		return
	}
	s.finishStopLocked()
}

func (s *Supervisor) finishStopLocked() {
	s.resetLocked()
	s.log.Info("player stopped")
	if s.pending != nil {
		next := *s.pending
		s.pending = nil
		// The outcome lands in the session state; the UI reads it on the
		// next snapshot.
		_ = s.launchLocked(next)
	}
}

func (s *Supervisor) resetLocked() {
	s.state = Idle
	s.station = radio.Station{}
	s.startedAt = time.Time{}
	s.lastErr = nil
	s.notifyLocked()
}

func (s *Supervisor) notifyLocked() {
	select {
	case s.events <- struct{}{}:
	default:
	}
}
