// Package series keeps bounded in-memory histories of numeric metrics.
package series

// Series is a fixed-capacity circular buffer of float64 samples. When full,
// each new sample evicts the oldest one.
type Series struct {
	data  []float64
	head  int // next write position
	count int
	fed   bool // pushed to since the last prune
	idle  int  // consecutive prunes without a push
}

func newSeries(capacity int) *Series {
	return &Series{data: make([]float64, capacity)}
}

// Push appends v, evicting the oldest sample if the series is full.
func (s *Series) Push(v float64) {
	s.data[s.head] = v
	s.head = (s.head + 1) % len(s.data)
	if s.count < len(s.data) {
		s.count++
	}
	s.fed = true
}

// Samples returns a copy of the contents, oldest first.
func (s *Series) Samples() []float64 {
	out := make([]float64, s.count)
	start := (s.head - s.count + len(s.data)) % len(s.data)
	for i := range s.count {
		out[i] = s.data[(start+i)%len(s.data)]
	}
	return out
}

func (s *Series) Capacity() int { return len(s.data) }
