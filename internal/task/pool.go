package task

import (
	"github.com/google/uuid"

	"github.com/simonbystrom/opsim/internal/agent"
	"github.com/simonbystrom/opsim/internal/rng"
)

const (
	// DefaultCapacity is the maximum number of in-flight packets.
	DefaultCapacity = 6

	spawnProbability = 0.7
	minStep          = 5.0
	maxStep          = 20.0
	complete         = 100.0
)

// IDFunc mints packet IDs.
type IDFunc func() string

// Pool is the bounded set of in-flight packets. Like agent.Roster, a Pool
// value shares its Tasks slice with its copies; use Clone before mutating.
type Pool struct {
	Capacity int
	Tasks    []Packet
}

func NewPool(capacity int) Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return Pool{Capacity: capacity, Tasks: make([]Packet, 0, capacity)}
}

func (p Pool) Len() int {
	return len(p.Tasks)
}

func (p Pool) Full() bool {
	return len(p.Tasks) >= p.Capacity
}

func (p Pool) Clone() Pool {
	out := Pool{Capacity: p.Capacity, Tasks: make([]Packet, len(p.Tasks), max(len(p.Tasks), p.Capacity))}
	copy(out.Tasks, p.Tasks)
	return out
}

// Advance runs one tick of the lifecycle: every packet progresses, then the
// spawn policy gets one chance to admit new work. It returns the new pool and
// how many packets reached DONE and were evicted.
func Advance(p Pool, r agent.Roster, src rng.Source, newID IDFunc) (Pool, int) {
	out, completed := Progress(p, src)
	out, _ = Spawn(out, r, src, newID)
	return out, completed
}

// Progress moves every packet forward by a random step. A packet crossing
// 100 enters the next stage at progress 0, or leaves the pool if that stage
// is DONE. Each packet is evaluated on its own, so order does not matter.
func Progress(p Pool, src rng.Source) (Pool, int) {
	out := Pool{Capacity: p.Capacity, Tasks: make([]Packet, 0, max(len(p.Tasks), p.Capacity))}
	completed := 0

	for _, t := range p.Tasks {
		t.Progress += rng.Uniform(src, minStep, maxStep)
		if t.Progress < complete {
			out.Tasks = append(out.Tasks, t)
			continue
		}

		t.Stage = t.Stage.Next()
		if t.Stage == StageDone {
			completed++
			continue
		}
		t.Progress = 0
		out.Tasks = append(out.Tasks, t)
	}

	return out, completed
}

// Spawn admits at most one new packet. A full pool declines without drawing
// from src; an empty roster declines after the admission roll.
func Spawn(p Pool, r agent.Roster, src rng.Source, newID IDFunc) (Pool, bool) {
	if p.Full() {
		return p, false
	}
	if !rng.Bernoulli(src, spawnProbability) {
		return p, false
	}
	if r.Len() == 0 {
		return p, false
	}
	if newID == nil {
		newID = uuid.NewString
	}

	a := r.At(rng.Pick(src, r.Len()))
	tmpl := TemplateFor(a.Role)

	out := p.Clone()
	out.Tasks = append(out.Tasks, Packet{
		ID:        newID(),
		Name:      tmpl.Name,
		Progress:  0,
		Stage:     StageQueue,
		AgentID:   a.ID,
		AgentName: a.Name,
		Detail:    tmpl.Detail,
		Tool:      tmpl.Tool,
	})
	return out, true
}
