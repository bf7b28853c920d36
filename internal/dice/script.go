package dice

// Script replays fixed values. Ints are consumed by IntN (reduced modulo n),
// Floats by Float64. When a queue runs dry the fallback values are used.
type Script struct {
	Ints          []int
	Floats        []float64
	FallbackInt   int
	FallbackFloat float64
}

func (s *Script) IntN(n int) int {
	v := s.FallbackInt
	if len(s.Ints) > 0 {
		v, s.Ints = s.Ints[0], s.Ints[1:]
	}
	if n <= 0 {
		return 0
	}
	if v < 0 {
		v = -v
	}
	return v % n
}

func (s *Script) Float64() float64 {
	v := s.FallbackFloat
	if len(s.Floats) > 0 {
		v, s.Floats = s.Floats[0], s.Floats[1:]
	}
	return v
}
