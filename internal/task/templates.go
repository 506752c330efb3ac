package task

import "github.com/simonbystrom/opsim/internal/agent"

// Template is the shape of work a role produces.
type Template struct {
	Name   string
	Detail string
	Tool   string
}

// DefaultTemplate covers roles with no entry in Templates.
var DefaultTemplate = Template{Name: "Routine Audit", Detail: "Checking Logs", Tool: "log_reader"}

var Templates = map[agent.Role]Template{
	agent.RoleHeadIT:          {Name: "Infra Capacity Review", Detail: "Scaling Cluster", Tool: "infrastructure_scale"},
	agent.RoleVPSales:         {Name: "Enterprise Pipeline Push", Detail: "Drafting Proposals", Tool: "email_send"},
	agent.RoleDevOpsEngineer:  {Name: "CI/CD Deployment", Detail: "Rolling Out Build", Tool: "kubectl"},
	agent.RoleAIResearcher:    {Name: "Model Evaluation", Detail: "Running Benchmarks", Tool: "python_exec"},
	agent.RoleITSalesEngineer: {Name: "Product Demo", Detail: "Preparing Sandbox", Tool: "calendar"},
	agent.RoleHeadHR:          {Name: "Candidate Screening", Detail: "Reviewing Profiles", Tool: "internal_db"},
	agent.RoleKernelArchitect: {Name: "Scheduler Patch", Detail: "Profiling Kernel", Tool: "kernel_debug"},
	agent.RoleVoIPEngineer:    {Name: "SIP Trunk Check", Detail: "Monitoring Calls", Tool: "sip_monitor"},
}

// TemplateFor returns the template for role, falling back to DefaultTemplate.
func TemplateFor(role agent.Role) Template {
	if t, ok := Templates[role]; ok {
		return t
	}
	return DefaultTemplate
}
