package agent

type Department string

const (
	DeptBoard    Department = "BOARD"
	DeptTech     Department = "TECH"
	DeptGrowth   Department = "GROWTH"
	DeptResearch Department = "RESEARCH"
	DeptOps      Department = "OPS"
	DeptComms    Department = "COMMS"
)

type Role string

const (
	RoleFounder         Role = "Founder"
	RoleHeadIT          Role = "Head of IT"
	RoleVPSales         Role = "VP Sales"
	RoleDevOpsEngineer  Role = "DevOps Engineer"
	RoleAIResearcher    Role = "AI Researcher"
	RoleITSalesEngineer Role = "IT Sales Engineer"
	RoleHeadHR          Role = "Head of HR"
	RoleKernelArchitect Role = "Kernel Architect"
	RoleVoIPEngineer    Role = "VoIP Engineer"
)

// Status is shown on the dashboard only. The engine never reads it.
type Status string

const (
	StatusWorking  Status = "WORKING"
	StatusMeeting  Status = "MEETING"
	StatusThinking Status = "THINKING"
	StatusOnCall   Status = "ON_CALL"
	StatusIdle     Status = "IDLE"
)

// Growth holds the counters that only growth-department agents carry.
type Growth struct {
	RevenueGenerated int64 `json:"revenue_generated" yaml:"revenue_generated"`
	LeadsGenerated   int64 `json:"leads_generated" yaml:"leads_generated"`
}

type Metrics struct {
	TokensPerSec float64 `json:"tokens_per_sec" yaml:"tokens_per_sec"`
	SuccessRate  float64 `json:"success_rate" yaml:"success_rate"`
	LatencyMs    float64 `json:"latency_ms" yaml:"latency_ms"`
	Uptime       float64 `json:"uptime" yaml:"uptime"`
	TotalCost    float64 `json:"total_cost" yaml:"total_cost"`

	// Growth is nil for agents outside the growth department.
	Growth *Growth `json:"growth,omitempty" yaml:"growth,omitempty"`
}

func (m Metrics) clone() Metrics {
	if m.Growth != nil {
		g := *m.Growth
		m.Growth = &g
	}
	return m
}

type Agent struct {
	// Identity, fixed at startup.
	ID           string     `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Role         Role       `json:"role" yaml:"role"`
	Department   Department `json:"department" yaml:"department"`
	Model        string     `json:"model" yaml:"model"`
	SystemPrompt string     `json:"-" yaml:"-"`

	Status  Status  `json:"status" yaml:"status"`
	Metrics Metrics `json:"metrics" yaml:"metrics"`
	// Health is derived from Metrics by Classify after every tick.
	Health Health `json:"health" yaml:"health"`
}

// Clone returns a deep copy.
func (a Agent) Clone() Agent {
	a.Metrics = a.Metrics.clone()
	return a
}

// IsGrowth reports whether the agent feeds the revenue totals.
func (a Agent) IsGrowth() bool {
	return a.Department == DeptGrowth
}
