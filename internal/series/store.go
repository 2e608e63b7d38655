package series

import (
	"slices"
	"strings"
	"sync"

	"codeberg.org/mutker/hwdash/internal/errors"
)

// Sample is one value destined for a named series.
type Sample struct {
	Name  string
	Value float64
}

// Store is a set of independently bounded series keyed by name.
type Store struct {
	mu     sync.RWMutex
	series map[string]*Series
}

func NewStore() *Store {
	return &Store{series: make(map[string]*Series)}
}

// EnsureSeries creates name with the given capacity unless it already exists.
// The capacity of an existing series is never changed.
func (s *Store) EnsureSeries(name string, capacity int) error {
	if capacity < 1 {
		return errFactory.WithData(errors.ErrInvalidCapacity, capacity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.series[name]; !ok {
		s.series[name] = newSeries(capacity)
	}
	return nil
}

// Record appends value to name.
func (s *Store) Record(name string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(name, value)
}

// RecordAll appends a batch under one lock, so readers see all of it or none
// of it. A sample for an unknown series is skipped and reported; the rest are
// still recorded.
func (s *Store) RecordAll(samples []Sample) []error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, sample := range samples {
		if err := s.record(sample.Name, sample.Value); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (s *Store) record(name string, value float64) error {
	ser, ok := s.series[name]
	if !ok {
		return errFactory.WithData(ErrUnknownSeries, name)
	}
	ser.Push(value)
	return nil
}

// Read returns a fresh copy of the samples in name, oldest first.
func (s *Store) Read(name string) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ser, ok := s.series[name]
	if !ok {
		return nil, errFactory.WithData(ErrUnknownSeries, name)
	}
	return ser.Samples(), nil
}

// Capacity returns the fixed capacity of name.
func (s *Store) Capacity(name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ser, ok := s.series[name]
	if !ok {
		return 0, errFactory.WithData(ErrUnknownSeries, name)
	}
	return ser.Capacity(), nil
}

// Prune removes every series that received no sample during the last
// maxIdle calls to Prune and returns their names, sorted. maxIdle below one
// removes nothing.
func (s *Store) Prune(maxIdle int) []string {
	if maxIdle < 1 {
		return nil
	}

	s.mu.Lock()
	var removed []string
	for name, ser := range s.series {
		if ser.fed {
			ser.fed = false
			ser.idle = 0
			continue
		}
		ser.idle++
		if ser.idle >= maxIdle {
			delete(s.series, name)
			removed = append(removed, name)
		}
	}
	s.mu.Unlock()

	slices.Sort(removed)
	return removed
}

// Names lists all series, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.series))
	for name := range s.series {
		names = append(names, name)
	}
	s.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Capacities resolves the capacity for a new series: the longest matching
// prefix in Overrides, else Default.
type Capacities struct {
	Default   int
	Overrides map[string]int
}

func (c Capacities) For(name string) int {
	best, capacity := -1, c.Default
	for prefix, n := range c.Overrides {
		if strings.HasPrefix(name, prefix) && len(prefix) > best {
			best, capacity = len(prefix), n
		}
	}
	return capacity
}
