package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/simonbystrom/opsim/internal/engine"
	"github.com/simonbystrom/opsim/internal/rng"
)

type fakeEngine struct {
	mu      sync.Mutex
	ticks   uint64
	panicAt uint64
}

func (f *fakeEngine) Tick() engine.TickResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks++
	if f.panicAt != 0 && f.ticks == f.panicAt {
		panic("boom")
	}
	return engine.TickResult{Tick: f.ticks}
}

func (f *fakeEngine) Snapshot() engine.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return engine.Snapshot{Tick: f.ticks}
}

func (f *fakeEngine) count() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ticks
}

// manualTicker hands the test control over when ticks fire.
type manualTicker struct {
	c       chan time.Time
	stopped chan struct{}
}

func newManualTicker() *manualTicker {
	return &manualTicker{c: make(chan time.Time), stopped: make(chan struct{}, 1)}
}

func (m *manualTicker) option() Option {
	return WithTicker(func(time.Duration) (<-chan time.Time, func()) {
		return m.c, func() {
			select {
			case m.stopped <- struct{}{}:
			default:
			}
		}
	})
}

func waitState(t *testing.T, s *Scheduler, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.State() != want {
		if time.Now().After(deadline) {
			t.Fatalf("State = %s, want %s", s.State(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNew_Interval(t *testing.T) {
	tests := []struct {
		in      time.Duration
		want    time.Duration
		wantErr bool
	}{
		{0, DefaultInterval, false},
		{MinInterval, MinInterval, false},
		{800 * time.Millisecond, 800 * time.Millisecond, false},
		{MaxInterval, MaxInterval, false},
		{50 * time.Millisecond, 0, true},
		{2 * time.Minute, 0, true},
		{-time.Second, 0, true},
	}
	for _, tt := range tests {
		s, err := New(&fakeEngine{}, tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInterval) {
				t.Errorf("New(%s) err = %v, want ErrInterval", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("New(%s) unexpected error: %v", tt.in, err)
			continue
		}
		if s.Interval() != tt.want {
			t.Errorf("New(%s).Interval() = %s, want %s", tt.in, s.Interval(), tt.want)
		}
	}
}

func TestStartStop_StateMachine(t *testing.T) {
	mt := newManualTicker()
	s, err := New(&fakeEngine{}, 0, mt.option())
	if err != nil {
		t.Fatal(err)
	}

	if s.State() != StateStopped {
		t.Errorf("initial State = %s, want STOPPED", s.State())
	}
	if err := s.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop on stopped = %v, want ErrNotRunning", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.State() != StateRunning {
		t.Errorf("State = %s, want RUNNING", s.State())
	}
	if err := s.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start = %v, want ErrAlreadyRunning", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.State() != StateStopped {
		t.Errorf("State = %s, want STOPPED", s.State())
	}
	select {
	case <-mt.stopped:
	default:
		t.Error("ticker was not stopped")
	}
}

func TestTicksPublishInOrder(t *testing.T) {
	mt := newManualTicker()
	eng := &fakeEngine{}
	got := make(chan uint64, 10)
	s, _ := New(eng, 0, mt.option(), WithPublish(func(snap engine.Snapshot) {
		got <- snap.Tick
	}))

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	for i := uint64(1); i <= 3; i++ {
		mt.c <- time.Now()
		if n := <-got; n != i {
			t.Errorf("published tick %d, want %d", n, i)
		}
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}

	if n := eng.count(); n != 3 {
		t.Errorf("engine ticked %d times, want 3", n)
	}
}

func TestStop_NoTicksAfterReturn(t *testing.T) {
	mt := newManualTicker()
	eng := &fakeEngine{}
	s, _ := New(eng, 0, mt.option())

	_ = s.Start(context.Background())
	mt.c <- time.Now()
	_ = s.Stop()
	before := eng.count()

	// Nobody is receiving any more.
	select {
	case mt.c <- time.Now():
		t.Error("tick delivered after Stop returned")
	case <-time.After(50 * time.Millisecond):
	}
	if eng.count() != before {
		t.Errorf("engine ticked after Stop: %d -> %d", before, eng.count())
	}
}

func TestRestart(t *testing.T) {
	mt := newManualTicker()
	eng := &fakeEngine{}
	s, _ := New(eng, 0, mt.option())

	for round := 0; round < 3; round++ {
		if err := s.Start(context.Background()); err != nil {
			t.Fatalf("round %d Start: %v", round, err)
		}
		mt.c <- time.Now()
		if err := s.Stop(); err != nil {
			t.Fatalf("round %d Stop: %v", round, err)
		}
		<-mt.stopped
	}
	if n := eng.count(); n != 3 {
		t.Errorf("engine ticked %d times, want 3", n)
	}
}

func TestPanicStopsScheduler(t *testing.T) {
	mt := newManualTicker()
	eng := &fakeEngine{panicAt: 2}
	s, _ := New(eng, 0, mt.option())

	_ = s.Start(context.Background())
	mt.c <- time.Now()
	mt.c <- time.Now()
	waitState(t, s, StateStopped)
	<-mt.stopped

	if err := s.Err(); !errors.Is(err, ErrTickPanic) {
		t.Errorf("Err = %v, want ErrTickPanic", err)
	}
	if err := s.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop after panic = %v, want ErrNotRunning", err)
	}
	if got := eng.Snapshot().Tick; got != 2 {
		t.Errorf("last snapshot tick = %d, want 2", got)
	}

	// A fresh Start clears the error.
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start after panic: %v", err)
	}
	if s.Err() != nil {
		t.Errorf("Err after restart = %v, want nil", s.Err())
	}
	mt.c <- time.Now()
	if err := s.Stop(); err != nil {
		t.Errorf("Stop after restart = %v", err)
	}
	if n := eng.count(); n != 3 {
		t.Errorf("engine ticked %d times, want 3", n)
	}
}

func TestStartWaitsForPreviousLoop(t *testing.T) {
	mt := newManualTicker()
	eng := &fakeEngine{}
	release := make(chan struct{})
	inPublish := make(chan struct{}, 1)
	var publishes atomic.Int32
	s, _ := New(eng, 0, mt.option(), WithPublish(func(engine.Snapshot) {
		if publishes.Add(1) == 1 {
			inPublish <- struct{}{}
			<-release
		}
	}))

	_ = s.Start(context.Background())
	mt.c <- time.Now()
	<-inPublish

	stopped := make(chan error, 1)
	go func() { stopped <- s.Stop() }()
	waitState(t, s, StateStopped)

	started := make(chan error, 1)
	go func() { started <- s.Start(context.Background()) }()

	select {
	case err := <-started:
		t.Fatalf("Start returned %v while the previous loop was still publishing", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if err := <-stopped; err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := <-started; err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.State() != StateRunning {
		t.Errorf("State = %s, want RUNNING", s.State())
	}
	_ = s.Stop()
}

func TestOnHalt(t *testing.T) {
	t.Run("panic", func(t *testing.T) {
		mt := newManualTicker()
		halted := make(chan error, 1)
		s, _ := New(&fakeEngine{panicAt: 1}, 0, mt.option(), WithOnHalt(func(err error) { halted <- err }))

		_ = s.Start(context.Background())
		mt.c <- time.Now()

		select {
		case err := <-halted:
			if !errors.Is(err, ErrTickPanic) {
				t.Errorf("halt err = %v, want ErrTickPanic", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("OnHalt not called after a panic")
		}
	})

	t.Run("context cancelled", func(t *testing.T) {
		mt := newManualTicker()
		halted := make(chan error, 1)
		s, _ := New(&fakeEngine{}, 0, mt.option(), WithOnHalt(func(err error) { halted <- err }))

		ctx, cancel := context.WithCancel(context.Background())
		_ = s.Start(ctx)
		cancel()

		select {
		case err := <-halted:
			if err != nil {
				t.Errorf("halt err = %v, want nil", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("OnHalt not called after cancel")
		}
	})

	t.Run("not on Stop", func(t *testing.T) {
		mt := newManualTicker()
		halted := make(chan error, 1)
		s, _ := New(&fakeEngine{}, 0, mt.option(), WithOnHalt(func(err error) { halted <- err }))

		_ = s.Start(context.Background())
		if err := s.Stop(); err != nil {
			t.Fatalf("Stop: %v", err)
		}
		select {
		case err := <-halted:
			t.Errorf("OnHalt called after Stop with %v", err)
		default:
		}
	})
}

func TestContextCancelStops(t *testing.T) {
	mt := newManualTicker()
	s, _ := New(&fakeEngine{}, 0, mt.option())

	ctx, cancel := context.WithCancel(context.Background())
	_ = s.Start(ctx)
	cancel()
	waitState(t, s, StateStopped)
	if s.Err() != nil {
		t.Errorf("Err = %v, want nil", s.Err())
	}
}

func TestRealEngine_RealTicker(t *testing.T) {
	if testing.Short() {
		t.Skip("uses wall-clock ticks")
	}
	eng := engine.New(engine.WithRand(rng.New(1)))
	published := make(chan engine.Snapshot, 16)
	s, err := New(eng, MinInterval, WithPublish(func(snap engine.Snapshot) {
		select {
		case published <- snap:
		default:
		}
	}))
	if err != nil {
		t.Fatal(err)
	}

	_ = s.Start(context.Background())
	defer s.Stop()

	for want := uint64(1); want <= 2; want++ {
		select {
		case snap := <-published:
			if snap.Tick != want {
				t.Errorf("snapshot tick = %d, want %d", snap.Tick, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for tick")
		}
	}
}
