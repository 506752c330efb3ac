package revenue

import "testing"

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		start Totals
		delta Delta
		want  Totals
	}{
		{"zero delta", Totals{100, 2}, Delta{}, Totals{100, 2}},
		{"revenue and lead", Totals{170000, 570}, Delta{Revenue: 312, Leads: 1}, Totals{170312, 571}},
		{"lead with no revenue", Totals{10, 1}, Delta{Revenue: 0, Leads: 1}, Totals{10, 2}},
		{"negative ignored", Totals{10, 1}, Delta{Revenue: -5, Leads: -1}, Totals{10, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.start, tt.delta); got != tt.want {
				t.Errorf("Apply(%v, %v) = %v, want %v", tt.start, tt.delta, got, tt.want)
			}
		})
	}
}

func TestApply_Monotone(t *testing.T) {
	totals := Totals{}
	deltas := []Delta{{5, 1}, {-100, 0}, {0, 1}, {499, 1}, {0, -3}}
	for _, d := range deltas {
		next := Apply(totals, d)
		if next.Revenue < totals.Revenue || next.Leads < totals.Leads {
			t.Fatalf("Apply(%v, %v) = %v decreased", totals, d, next)
		}
		totals = next
	}
}

func TestDelta_AddAndIsZero(t *testing.T) {
	if !(Delta{}).IsZero() {
		t.Error("empty delta should be zero")
	}
	d := Delta{Revenue: 10, Leads: 1}.Add(Delta{Revenue: 0, Leads: 1})
	if d != (Delta{Revenue: 10, Leads: 2}) {
		t.Errorf("Add = %v, want {10 2}", d)
	}
	if d.IsZero() {
		t.Error("non-empty delta reported zero")
	}
}
