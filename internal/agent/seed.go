package agent

// HRAgentID is the agent hire alerts are attributed to.
const HRAgentID = "hr-head"

func growth(revenue, leads int64) *Growth {
	return &Growth{RevenueGenerated: revenue, LeadsGenerated: leads}
}

// SeedAgents returns the starting workforce.
func SeedAgents() []Agent {
	return []Agent{
		{
			ID: "founder-1", Name: "Co-Founder (Strategy)", Role: RoleFounder, Department: DeptBoard,
			Status: StatusWorking, Model: "gemini-1.5-pro",
			SystemPrompt: "You are the strategic founder...",
			Metrics:      Metrics{TokensPerSec: 145, SuccessRate: 99.9, TotalCost: 450.20, LatencyMs: 120, Uptime: 100},
		},
		{
			ID: "head-it", Name: "Head IT & Infra", Role: RoleHeadIT, Department: DeptTech,
			Status: StatusWorking, Model: "gemini-1.5-pro",
			SystemPrompt: "You manage the cloud infrastructure...",
			Metrics:      Metrics{TokensPerSec: 89, SuccessRate: 98.5, TotalCost: 210.50, LatencyMs: 85, Uptime: 99.9},
		},
		{
			ID: "vp-sales", Name: "VP Sales", Role: RoleVPSales, Department: DeptGrowth,
			Status: StatusMeeting, Model: "gemini-1.5-flash",
			SystemPrompt: "You are an aggressive sales leader...",
			Metrics: Metrics{TokensPerSec: 200, SuccessRate: 92.0, TotalCost: 150.00, LatencyMs: 45, Uptime: 99.5,
				Growth: growth(125000, 420)},
		},
		{
			ID: "devops-1", Name: "DevOps Lead", Role: RoleDevOpsEngineer, Department: DeptTech,
			Status: StatusWorking, Model: "llama-3-70b",
			SystemPrompt: "Maintain CI/CD pipelines...",
			Metrics:      Metrics{TokensPerSec: 120, SuccessRate: 99.5, TotalCost: 50.00, LatencyMs: 60, Uptime: 100},
		},
		{
			ID: "ai-research", Name: "Lead AI Researcher", Role: RoleAIResearcher, Department: DeptResearch,
			Status: StatusThinking, Model: "gemini-1.5-pro",
			SystemPrompt: "Innovate on Neural Bridge architecture...",
			Metrics:      Metrics{TokensPerSec: 90, SuccessRate: 95.0, TotalCost: 300.00, LatencyMs: 200, Uptime: 98.0},
		},
		{
			ID: "sales-eng", Name: "IT Sales Engineer", Role: RoleITSalesEngineer, Department: DeptGrowth,
			Status: StatusWorking, Model: "gemini-1.5-flash",
			SystemPrompt: "Demo technical products to leads...",
			Metrics: Metrics{TokensPerSec: 150, SuccessRate: 97.0, TotalCost: 80.00, LatencyMs: 50, Uptime: 99.0,
				Growth: growth(45000, 150)},
		},
		{
			ID: HRAgentID, Name: "Head of HR", Role: RoleHeadHR, Department: DeptOps,
			Status: StatusWorking, Model: "gemini-1.5-flash",
			SystemPrompt: "Manage talent acquisition...",
			Metrics:      Metrics{TokensPerSec: 50, SuccessRate: 100, TotalCost: 20.00, LatencyMs: 100, Uptime: 100},
		},
		{
			ID: "kernel-arch", Name: "Vaanam Kernel Arch", Role: RoleKernelArchitect, Department: DeptTech,
			Status: StatusWorking, Model: "gemini-1.5-pro",
			SystemPrompt: "Optimize Vaanam OS Kernel scheduling...",
			Metrics:      Metrics{TokensPerSec: 110, SuccessRate: 99.9, TotalCost: 120.00, LatencyMs: 40, Uptime: 99.99},
		},
		{
			ID: "voip-eng", Name: "VoIP Systems Eng", Role: RoleVoIPEngineer, Department: DeptComms,
			Status: StatusOnCall, Model: "gemini-1.5-flash",
			SystemPrompt: "Manage SIP trunks and WebRTC gateways...",
			Metrics:      Metrics{TokensPerSec: 130, SuccessRate: 98.0, TotalCost: 90.00, LatencyMs: 30, Uptime: 99.5},
		},
	}
}

// DefaultRoster builds a roster from SeedAgents.
func DefaultRoster() Roster {
	r, err := NewRoster(SeedAgents()...)
	if err != nil {
		panic(err) // seed ids are unique
	}
	return r
}
