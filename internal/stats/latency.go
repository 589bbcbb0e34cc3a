// Package stats keeps rolling latency figures for the parse engine.
package stats

import (
	"slices"
	"sync"
	"time"
)

// DefaultWindow is how long samples are kept when no window is given.
const DefaultWindow = 15 * time.Minute

// maxSamples bounds memory under sustained load; the oldest samples go first.
const maxSamples = 10000

type sample struct {
	at time.Time
	us int64
}

// Snapshot aggregates the samples inside the window. Durations are in
// microseconds.
type Snapshot struct {
	Count  int     `json:"count"`
	Window string  `json:"window"`
	MinUs  int64   `json:"min_us"`
	MaxUs  int64   `json:"max_us"`
	AvgUs  float64 `json:"avg_us"`
	P50Us  float64 `json:"p50_us"`
	P95Us  float64 `json:"p95_us"`
	P99Us  float64 `json:"p99_us"`
}

// LatencyStats records durations within a rolling time window. It is safe
// for concurrent use.
type LatencyStats struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

func NewLatencyStats(window time.Duration) *LatencyStats {
	if window <= 0 {
		window = DefaultWindow
	}
	return &LatencyStats{
		samples: make([]sample, 0, 256),
		window:  window,
		now:     time.Now,
	}
}

// Record adds one duration. Negative durations count as zero.
func (s *LatencyStats) Record(d time.Duration) {
	us := max(d.Microseconds(), 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	if len(s.samples) >= maxSamples {
		s.samples = slices.Delete(s.samples, 0, len(s.samples)-maxSamples+1)
	}
	s.samples = append(s.samples, sample{at: now, us: us})
}

// Time runs fn and records how long it took.
func (s *LatencyStats) Time(fn func()) {
	start := s.now()
	fn()
	s.Record(s.now().Sub(start))
}

func (s *LatencyStats) Snapshot() Snapshot {
	s.mu.Lock()
	s.pruneLocked(s.now())
	values := make([]int64, len(s.samples))
	for i, sm := range s.samples {
		values[i] = sm.us
	}
	s.mu.Unlock()

	snap := Snapshot{Count: len(values), Window: s.window.String()}
	if len(values) == 0 {
		return snap
	}

	slices.Sort(values)
	var sum int64
	for _, v := range values {
		sum += v
	}
	snap.MinUs = values[0]
	snap.MaxUs = values[len(values)-1]
	snap.AvgUs = float64(sum) / float64(len(values))
	snap.P50Us = percentile(values, 50)
	snap.P95Us = percentile(values, 95)
	snap.P99Us = percentile(values, 99)
	return snap
}

// pruneLocked drops samples older than the window. Samples are appended in
// time order, so the expired ones form a prefix.
func (s *LatencyStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	i, _ := slices.BinarySearchFunc(s.samples, cutoff, func(sm sample, t time.Time) int {
		return sm.at.Compare(t)
	})
	if i > 0 {
		s.samples = slices.Delete(s.samples, 0, i)
	}
}

// percentile interpolates linearly between the two closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	rank := float64(len(sorted)-1) * pct / 100
	lo := int(rank)
	if lo+1 >= len(sorted) {
		return float64(sorted[lo])
	}
	frac := rank - float64(lo)
	return float64(sorted[lo]) + float64(sorted[lo+1]-sorted[lo])*frac
}
