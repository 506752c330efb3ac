package rng

// Sequence replays fixed values. Floats and Ints are consumed independently
// and wrap around when exhausted. An empty slice yields zero.
type Sequence struct {
	Floats []float64
	Ints   []int

	fi, ii int
}

// Float64 returns the next value from Floats.
func (s *Sequence) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}

// IntN returns the next value from Ints, clamped to [0, n).
func (s *Sequence) IntN(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)]
	s.ii++
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// Draws returns how many floats and ints have been consumed.
func (s *Sequence) Draws() (floats, ints int) {
	return s.fi, s.ii
}
