package agent

import (
	"github.com/simonbystrom/opsim/internal/revenue"
	"github.com/simonbystrom/opsim/internal/rng"
)

const (
	touchProbability   = 0.5
	growthProbability  = 0.1
	degradeProbability = 0.02

	tokenJitter     = 20.0
	minTokensPerSec = 50.0
	maxTokensPerSec = 300.0
	maxDealRevenue  = 500

	degradeSuccess  = 5.0
	degradeLatency  = 100.0
	floorSuccess    = 70.0
	ceilLatency     = 500.0
	recoverSuccess  = 1.0
	recoverLatency  = 10.0
	ceilSuccess     = 100.0
	floorLatencyMin = 20.0
)

// Evolve applies one tick of metric drift to a copy of r. The draw order per
// agent is fixed: touch, tokens, growth deal (growth agents only), then
// degrade-or-recover. Agents that are not touched are returned unchanged.
// The returned delta sums every growth deal closed this tick.
func Evolve(r Roster, src rng.Source) (Roster, revenue.Delta) {
	out := r.Clone()
	var delta revenue.Delta

	for i := range out.agents {
		a := &out.agents[i]
		if !rng.Bernoulli(src, touchProbability) {
			continue
		}
		m := &a.Metrics

		m.TokensPerSec = clamp(m.TokensPerSec+rng.Uniform(src, -tokenJitter, tokenJitter), minTokensPerSec, maxTokensPerSec)

		if a.IsGrowth() && rng.Bernoulli(src, growthProbability) {
			amount := int64(rng.UniformInt(src, 0, maxDealRevenue))
			if m.Growth == nil {
				m.Growth = &Growth{}
			}
			m.Growth.RevenueGenerated += amount
			m.Growth.LeadsGenerated++
			delta = delta.Add(revenue.Delta{Revenue: amount, Leads: 1})
		}

		if rng.Bernoulli(src, degradeProbability) {
			m.SuccessRate = max(floorSuccess, m.SuccessRate-degradeSuccess)
			m.LatencyMs = min(ceilLatency, m.LatencyMs+degradeLatency)
		} else {
			m.SuccessRate = min(ceilSuccess, m.SuccessRate+recoverSuccess)
			m.LatencyMs = max(floorLatencyMin, m.LatencyMs-recoverLatency)
		}
	}

	return out, delta
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
