// Package engine owns the simulation state and runs one tick at a time.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/simonbystrom/opsim/internal/agent"
	"github.com/simonbystrom/opsim/internal/alert"
	"github.com/simonbystrom/opsim/internal/revenue"
	"github.com/simonbystrom/opsim/internal/rng"
	"github.com/simonbystrom/opsim/internal/task"
)

// Snapshot is a deep copy of the engine state after a committed tick.
type Snapshot struct {
	Tick      uint64         `json:"tick" yaml:"tick"`
	Agents    []agent.Agent  `json:"agents" yaml:"agents"`
	Tasks     []task.Packet  `json:"tasks" yaml:"tasks"`
	Alerts    []alert.Alert  `json:"alerts" yaml:"alerts"`
	Totals    revenue.Totals `json:"totals" yaml:"totals"`
	Completed int            `json:"completed" yaml:"completed"`
}

// TickResult describes what a single tick changed.
type TickResult struct {
	Tick      uint64
	Completed int
	Delta     revenue.Delta
	Alert     *alert.Alert
}

type Engine struct {
	tickMu sync.Mutex // serializes Tick

	mu        sync.RWMutex
	roster    agent.Roster
	pool      task.Pool
	alerts    alert.Log
	totals    revenue.Totals
	tick      uint64
	completed int

	src   rng.Source
	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source. Tests pass rng.New(seed).
func WithRand(src rng.Source) Option {
	return func(e *Engine) { e.src = src }
}

// WithRoster replaces the seed roster. Totals start from its growth metrics.
func WithRoster(r agent.Roster) Option {
	return func(e *Engine) { e.roster = r }
}

// WithCapacity sets the task pool capacity.
func WithCapacity(n int) Option {
	return func(e *Engine) { e.pool = task.NewPool(n) }
}

// WithClock overrides time.Now for alert timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDs overrides the ID generator for tasks and alerts.
func WithIDs(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		roster: agent.DefaultRoster(),
		pool:   task.NewPool(task.DefaultCapacity),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src, _ = rng.NewFromTime()
	}
	rev, leads := e.roster.GrowthTotals()
	e.totals = revenue.Totals{Revenue: rev, Leads: leads}
	return e
}

// Tick runs Task Pool advance+spawn, Metrics Evolution, Health
// reclassification, the Alert roll and the Revenue apply, in that order, then
// commits all results at once.
func (e *Engine) Tick() TickResult {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	e.mu.RLock()
	roster, pool, alerts, totals := e.roster, e.pool, e.alerts, e.totals
	e.mu.RUnlock()

	pool, completed := task.Advance(pool, roster, e.src, e.newID)
	roster, delta := agent.Evolve(roster, e.src)
	roster = agent.Reclassify(roster)

	res := TickResult{Completed: completed, Delta: delta}
	if a, ok := alert.MaybeEmit(roster, e.src, e.now(), e.newID); ok {
		alerts = alerts.Push(a)
		res.Alert = &a
		slog.Info("alert", "agent", a.AgentID, "severity", a.Severity, "message", a.Message)
	}
	if !delta.IsZero() {
		totals = revenue.Apply(totals, delta)
		slog.Info("revenue booked", "revenue", delta.Revenue, "leads", delta.Leads,
			"total_revenue", totals.Revenue, "total_leads", totals.Leads)
	}

	e.mu.Lock()
	e.roster = roster
	e.pool = pool
	e.alerts = alerts
	e.totals = totals
	e.completed += completed
	e.tick++
	res.Tick = e.tick
	e.mu.Unlock()

	slog.Debug("tick", "n", res.Tick, "tasks", pool.Len(), "completed", completed)
	return res
}

// Snapshot returns a deep copy of the last committed state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tasks := make([]task.Packet, len(e.pool.Tasks))
	copy(tasks, e.pool.Tasks)
	return Snapshot{
		Tick:      e.tick,
		Agents:    e.roster.All(),
		Tasks:     tasks,
		Alerts:    e.alerts.All(),
		Totals:    e.totals,
		Completed: e.completed,
	}
}
