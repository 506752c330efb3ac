// Package alert holds the bounded alert log and the rare hire event that
// feeds it.
package alert

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/simonbystrom/opsim/internal/agent"
	"github.com/simonbystrom/opsim/internal/rng"
)

type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeveritySuccess  Severity = "SUCCESS"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// MaxLen bounds the alert log.
const MaxLen = 10

const hireProbability = 0.005

// HireRoles are the roles a hire alert can announce.
var HireRoles = []agent.Role{
	agent.RoleDevOpsEngineer,
	agent.RoleAIResearcher,
	agent.RoleITSalesEngineer,
}

type Alert struct {
	ID        string    `json:"id" yaml:"id"`
	AgentID   string    `json:"agent_id" yaml:"agent_id"`
	AgentName string    `json:"agent_name" yaml:"agent_name"`
	Message   string    `json:"message" yaml:"message"`
	Severity  Severity  `json:"severity" yaml:"severity"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Log is a newest-first list of at most MaxLen alerts. The zero value is an
// empty log. Push returns a new Log and never modifies the receiver's
// backing array.
type Log struct {
	entries []Alert
}

func (l Log) Len() int {
	return len(l.entries)
}

// All returns a copy of the entries, newest first.
func (l Log) All() []Alert {
	out := make([]Alert, len(l.entries))
	copy(out, l.entries)
	return out
}

// Push prepends a and drops the oldest entries beyond MaxLen.
func (l Log) Push(a Alert) Log {
	n := min(len(l.entries)+1, MaxLen)
	out := make([]Alert, n)
	out[0] = a
	copy(out[1:], l.entries)
	return Log{entries: out}
}

// MaybeEmit rolls the hire event. On success it returns a SUCCESS alert
// attributed to the HR agent. It never looks at agent health.
func MaybeEmit(r agent.Roster, src rng.Source, now time.Time, newID func() string) (Alert, bool) {
	if !rng.Bernoulli(src, hireProbability) {
		return Alert{}, false
	}
	if newID == nil {
		newID = uuid.NewString
	}

	role := HireRoles[rng.Pick(src, len(HireRoles))]
	name := string(agent.RoleHeadHR)
	if hr, ok := r.Get(agent.HRAgentID); ok && hr.Name != "" {
		name = hr.Name
	}

	return Alert{
		ID:        newID(),
		AgentID:   agent.HRAgentID,
		AgentName: name,
		Message:   fmt.Sprintf("New Joining Alert: Deployed new %s agent to workforce.", role),
		Severity:  SeveritySuccess,
		Timestamp: now,
	}, true
}
