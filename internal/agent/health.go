package agent

type Health string

const (
	HealthHealthy  Health = "HEALTHY"
	HealthWarning  Health = "WARNING"
	HealthCritical Health = "CRITICAL"
)

const (
	criticalSuccessRate = 85
	criticalLatencyMs   = 250
	warningSuccessRate  = 95
	warningLatencyMs    = 150
)

// Classify derives a health tier from the current metrics alone. There is
// no memory of the previous tier, so an agent hovering at a threshold can
// change tier on every tick.
func Classify(m Metrics) Health {
	switch {
	case m.SuccessRate < criticalSuccessRate || m.LatencyMs > criticalLatencyMs:
		return HealthCritical
	case m.SuccessRate < warningSuccessRate || m.LatencyMs > warningLatencyMs:
		return HealthWarning
	default:
		return HealthHealthy
	}
}

// Reclassify returns a copy of r with every agent's Health recomputed.
func Reclassify(r Roster) Roster {
	out := r.Clone()
	for i := range out.agents {
		out.agents[i].Health = Classify(out.agents[i].Metrics)
	}
	return out
}
