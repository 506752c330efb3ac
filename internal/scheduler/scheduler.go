// Package scheduler drives an engine at a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/simonbystrom/opsim/internal/engine"
)

const (
	DefaultInterval = time.Second
	MinInterval     = 100 * time.Millisecond
	MaxInterval     = time.Minute
)

var (
	ErrAlreadyRunning = errors.New("scheduler already running")
	ErrNotRunning     = errors.New("scheduler not running")
	ErrInterval       = errors.New("tick interval out of range")
	ErrTickPanic      = errors.New("tick panicked")
)

type State int

const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "RUNNING"
	}
	return "STOPPED"
}

// Ticker is the part of the engine the scheduler drives.
type Ticker interface {
	Tick() engine.TickResult
	Snapshot() engine.Snapshot
}

// Scheduler fires one tick per interval. Ticks are run by a single goroutine
// and never overlap.
type Scheduler struct {
	eng       Ticker
	interval  time.Duration
	publish   func(engine.Snapshot)
	onHalt    func(error)
	newTicker func(time.Duration) (<-chan time.Time, func())

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithPublish registers fn to receive a snapshot after every committed tick.
// fn runs on the tick goroutine and must not call Stop.
func WithPublish(fn func(engine.Snapshot)) Option {
	return func(s *Scheduler) { s.publish = fn }
}

// WithOnHalt registers fn to run when the loop stops on its own, because its
// context was cancelled or a tick panicked. err is nil for a cancelled
// context. fn is not called when Stop ends the loop.
func WithOnHalt(fn func(error)) Option {
	return func(s *Scheduler) { s.onHalt = fn }
}

// WithTicker replaces time.NewTicker. The returned func stops the ticker.
func WithTicker(fn func(time.Duration) (<-chan time.Time, func())) Option {
	return func(s *Scheduler) { s.newTicker = fn }
}

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// New returns a stopped scheduler. A zero interval means DefaultInterval.
func New(eng Ticker, interval time.Duration, opts ...Option) (*Scheduler, error) {
	if interval == 0 {
		interval = DefaultInterval
	}
	if interval < MinInterval || interval > MaxInterval {
		return nil, fmt.Errorf("%w: %s not in [%s, %s]", ErrInterval, interval, MinInterval, MaxInterval)
	}
	s := &Scheduler{
		eng:       eng,
		interval:  interval,
		newTicker: realTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error that stopped the scheduler, if a tick panicked.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Start begins ticking. If a previous loop is still winding down after Stop,
// Start waits for it to exit first. Cancelling ctx has the same effect as
// Stop, except that it does not wait for the loop to exit.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	for {
		if s.state == StateRunning {
			s.mu.Unlock()
			return ErrAlreadyRunning
		}
		prev := s.done
		if prev == nil || isClosed(prev) {
			break
		}
		s.mu.Unlock()
		<-prev
		s.mu.Lock()
	}
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	ticks, stopTicker := s.newTicker(s.interval)
	done := make(chan struct{})

	s.state = StateRunning
	s.cancel = cancel
	s.done = done
	s.err = nil

	go s.loop(ctx, ticks, stopTicker, done)

	slog.Info("scheduler started", "interval", s.interval)
	return nil
}

func isClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// Stop halts ticking and blocks until the tick goroutine has exited. No tick
// runs after Stop returns. The last committed snapshot stays readable.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return ErrNotRunning
	}
	cancel, done := s.cancel, s.done
	s.state = StateStopped
	s.cancel = nil
	s.mu.Unlock()

	cancel()
	<-done

	slog.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) loop(ctx context.Context, ticks <-chan time.Time, stopTicker func(), done chan struct{}) {
	defer close(done)
	defer stopTicker()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("tick panicked, scheduler stopping", "panic", r)
			s.halt(done, fmt.Errorf("%w: %v", ErrTickPanic, r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.halt(done, nil)
			return
		case <-ticks:
		}
		if ctx.Err() != nil {
			s.halt(done, nil)
			return
		}

		s.eng.Tick()
		if s.publish != nil {
			s.publish(s.eng.Snapshot())
		}
	}
}

// halt moves the scheduler to STOPPED if the exiting loop is still the
// current one, and reports the stop through onHalt unless Stop caused it.
func (s *Scheduler) halt(done chan struct{}, err error) {
	s.mu.Lock()
	if s.done != done {
		s.mu.Unlock()
		return
	}
	self := s.state == StateRunning
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state = StateStopped
	if err != nil {
		s.err = err
	}
	s.mu.Unlock()

	if self && s.onHalt != nil {
		s.onHalt(err)
	}
}
