// Package revenue keeps the running business totals fed by growth agents.
package revenue

// Totals are the process-lifetime counters. They never decrease.
type Totals struct {
	Revenue int64 `json:"total_revenue" yaml:"total_revenue"`
	Leads   int64 `json:"total_leads" yaml:"total_leads"`
}

// Delta is what one tick of metrics evolution contributes.
type Delta struct {
	Revenue int64
	Leads   int64
}

// IsZero reports whether the delta carries no event.
func (d Delta) IsZero() bool {
	return d.Revenue == 0 && d.Leads == 0
}

// Add merges two deltas.
func (d Delta) Add(o Delta) Delta {
	return Delta{Revenue: d.Revenue + o.Revenue, Leads: d.Leads + o.Leads}
}

// Apply returns the totals after adding delta. Negative components are
// ignored so the totals stay monotone.
func Apply(t Totals, d Delta) Totals {
	if d.Revenue > 0 {
		t.Revenue += d.Revenue
	}
	if d.Leads > 0 {
		t.Leads += d.Leads
	}
	return t
}
