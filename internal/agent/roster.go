package agent

import "fmt"

// Roster is the ordered set of agents. A Roster value shares its backing
// storage with copies of itself, so anything that mutates agents works on a
// Clone.
type Roster struct {
	agents []Agent
	index  map[string]int
}

// NewRoster builds a roster from agents in order. Agents without an ID get
// "a<n>" where n is their 1-based position. Health is classified up front.
func NewRoster(agents ...Agent) (Roster, error) {
	r := Roster{
		agents: make([]Agent, 0, len(agents)),
		index:  make(map[string]int, len(agents)),
	}
	for _, a := range agents {
		a = a.Clone()
		if a.ID == "" {
			a.ID = fmt.Sprintf("a%d", len(r.agents)+1)
		}
		if _, dup := r.index[a.ID]; dup {
			return Roster{}, fmt.Errorf("duplicate agent id %q", a.ID)
		}
		if a.IsGrowth() && a.Metrics.Growth == nil {
			a.Metrics.Growth = &Growth{}
		}
		a.Health = Classify(a.Metrics)
		r.index[a.ID] = len(r.agents)
		r.agents = append(r.agents, a)
	}
	return r, nil
}

func (r Roster) Len() int {
	return len(r.agents)
}

// At returns a copy of the i-th agent.
func (r Roster) At(i int) Agent {
	return r.agents[i].Clone()
}

func (r Roster) Get(id string) (Agent, bool) {
	i, ok := r.index[id]
	if !ok {
		return Agent{}, false
	}
	return r.agents[i].Clone(), true
}

// All returns deep copies of every agent in roster order.
func (r Roster) All() []Agent {
	result := make([]Agent, len(r.agents))
	for i, a := range r.agents {
		result[i] = a.Clone()
	}
	return result
}

func (r Roster) Clone() Roster {
	out := Roster{
		agents: make([]Agent, len(r.agents)),
		index:  r.index,
	}
	for i, a := range r.agents {
		out.agents[i] = a.Clone()
	}
	return out
}

// GrowthTotals sums revenue and leads across growth agents.
func (r Roster) GrowthTotals() (revenue, leads int64) {
	for _, a := range r.agents {
		if a.Metrics.Growth != nil {
			revenue += a.Metrics.Growth.RevenueGenerated
			leads += a.Metrics.Growth.LeadsGenerated
		}
	}
	return revenue, leads
}
