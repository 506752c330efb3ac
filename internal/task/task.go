// Package task models the short-lived work packets agents push through the
// QUEUE → PROCESSING → VALIDATING → DONE pipeline.
package task

type Stage string

const (
	StageQueue      Stage = "QUEUE"
	StageProcessing Stage = "PROCESSING"
	StageValidating Stage = "VALIDATING"
	// StageDone is terminal. A packet that reaches it leaves the pool in the
	// same tick, so it is never observed in a Pool.
	StageDone Stage = "DONE"
)

// Stages lists the pipeline in order.
var Stages = []Stage{StageQueue, StageProcessing, StageValidating, StageDone}

// Next returns the stage after s. DONE has no successor and returns itself.
func (s Stage) Next() Stage {
	switch s {
	case StageQueue:
		return StageProcessing
	case StageProcessing:
		return StageValidating
	default:
		return StageDone
	}
}

// Index is the position of s in Stages, or -1.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

type Packet struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Progress  float64 `json:"progress" yaml:"progress"`
	Stage     Stage   `json:"stage" yaml:"stage"`
	AgentID   string  `json:"agent_id" yaml:"agent_id"`
	AgentName string  `json:"agent_name" yaml:"agent_name"`
	Detail    string  `json:"detail" yaml:"detail"`
	Tool      string  `json:"tool" yaml:"tool"`
}
