package alert

import (
	"fmt"
	"testing"
	"time"

	"github.com/simonbystrom/opsim/internal/agent"
	"github.com/simonbystrom/opsim/internal/rng"
)

func TestLog_PushNewestFirst(t *testing.T) {
	var l Log
	for i := 1; i <= 3; i++ {
		l = l.Push(Alert{ID: fmt.Sprint(i)})
	}
	got := l.All()
	want := []string{"3", "2", "1"}
	if len(got) != len(want) {
		t.Fatalf("Len = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("entry %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestLog_EvictsOldest(t *testing.T) {
	var l Log
	for i := 1; i <= 25; i++ {
		l = l.Push(Alert{ID: fmt.Sprint(i)})
		if l.Len() > MaxLen {
			t.Fatalf("after %d pushes Len = %d, exceeds %d", i, l.Len(), MaxLen)
		}
	}
	got := l.All()
	if got[0].ID != "25" {
		t.Errorf("newest = %s, want 25", got[0].ID)
	}
	if got[MaxLen-1].ID != "16" {
		t.Errorf("oldest = %s, want 16", got[MaxLen-1].ID)
	}
}

func TestLog_PushDoesNotAlias(t *testing.T) {
	base := Log{}.Push(Alert{ID: "a"})
	_ = base.Push(Alert{ID: "b"})
	if got := base.All(); len(got) != 1 || got[0].ID != "a" {
		t.Errorf("base log changed after Push: %v", got)
	}

	all := base.All()
	all[0].ID = "mutated"
	if base.All()[0].ID != "a" {
		t.Error("All returned a live reference")
	}
}

func TestMaybeEmit(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := agent.DefaultRoster()

	tests := []struct {
		name    string
		roll    float64
		pick    int
		wantOK  bool
		wantMsg string
	}{
		{"miss", 0.005, 0, false, ""},
		{"devops", 0.001, 0, true, "New Joining Alert: Deployed new DevOps Engineer agent to workforce."},
		{"researcher", 0.0, 1, true, "New Joining Alert: Deployed new AI Researcher agent to workforce."},
		{"sales", 0.004, 2, true, "New Joining Alert: Deployed new IT Sales Engineer agent to workforce."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &rng.Sequence{Floats: []float64{tt.roll}, Ints: []int{tt.pick}}
			a, ok := MaybeEmit(r, src, now, func() string { return "alert-1" })
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				if _, ints := src.Draws(); ints != 0 {
					t.Errorf("missed roll drew %d ints, want 0", ints)
				}
				return
			}
			if a.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", a.Message, tt.wantMsg)
			}
			if a.Severity != SeveritySuccess {
				t.Errorf("Severity = %s, want SUCCESS", a.Severity)
			}
			if a.AgentID != agent.HRAgentID || a.AgentName != "Head of HR" {
				t.Errorf("attributed to %s/%s, want hr-head/Head of HR", a.AgentID, a.AgentName)
			}
			if !a.Timestamp.Equal(now) || a.ID != "alert-1" {
				t.Errorf("ID/Timestamp = %s/%v", a.ID, a.Timestamp)
			}
		})
	}
}

func TestMaybeEmit_HRMissingFromRoster(t *testing.T) {
	r, err := agent.NewRoster(agent.Agent{ID: "solo", Name: "Solo"})
	if err != nil {
		t.Fatalf("NewRoster: %v", err)
	}
	a, ok := MaybeEmit(r, &rng.Sequence{Floats: []float64{0}}, time.Now(), nil)
	if !ok {
		t.Fatal("expected an alert")
	}
	if a.AgentName != "Head of HR" {
		t.Errorf("AgentName = %q, want fallback %q", a.AgentName, "Head of HR")
	}
	if a.ID == "" {
		t.Error("default id func produced empty id")
	}
}

func TestMaybeEmit_IgnoresHealth(t *testing.T) {
	sick := agent.Agent{
		ID:      agent.HRAgentID,
		Name:    "Head of HR",
		Metrics: agent.Metrics{SuccessRate: 10, LatencyMs: 499},
	}
	r, err := agent.NewRoster(sick)
	if err != nil {
		t.Fatalf("NewRoster: %v", err)
	}
	if got, _ := r.Get(agent.HRAgentID); got.Health != agent.HealthCritical {
		t.Fatalf("setup: health = %s, want CRITICAL", got.Health)
	}
	if _, ok := MaybeEmit(r, &rng.Sequence{Floats: []float64{0.9}}, time.Now(), nil); ok {
		t.Error("CRITICAL agent triggered an alert")
	}
}
