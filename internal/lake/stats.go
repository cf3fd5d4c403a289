package lake

import "sync/atomic"

// Stats collects per-run counters. Counter fields use atomics so the
// independent table stages can share one Stats while running concurrently.
type Stats struct {
	read      atomic.Int64
	filtered  atomic.Int64
	malformed atomic.Int64
	matched   atomic.Int64
	unmatched atomic.Int64
}

func (s *Stats) AddRead(n int64) { s.read.Add(n) }
func (s *Stats) IncFiltered() { s.filtered.Add(1) }
func (s *Stats) IncMalformed() { s.malformed.Add(1) }
func (s *Stats) IncMatched() { s.matched.Add(1) }
func (s *Stats) IncUnmatched() { s.unmatched.Add(1) }

func (s *Stats) Read() int64 { return s.read.Load() }
func (s *Stats) Filtered() int64 { return s.filtered.Load() }
func (s *Stats) Malformed() int64 { return s.malformed.Load() }
func (s *Stats) Matched() int64 { return s.matched.Load() }
func (s *Stats) Unmatched() int64 { return s.unmatched.Load() }

// LogFields returns the counters as logger key/values.
func (s *Stats) LogFields() []any {
	return []any{
		"records_read", s.Read(),
		"records_filtered", s.Filtered(),
		"records_malformed", s.Malformed(),
		"events_matched", s.Matched(),
		"events_unmatched", s.Unmatched(),
	}
}
