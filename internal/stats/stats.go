// Package stats keeps rolling render latency and outcome counts.
package stats

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at         time.Time
	format     string
	durationMs int64
	failed     bool
}

// FormatCount is the outcome tally for one source format.
type FormatCount struct {
	Rendered int `json:"rendered"`
	Failed   int `json:"failed"`
}

// Snapshot is a point-in-time aggregate of the render samples in the window.
// Latency figures cover successful renders only.
type Snapshot struct {
	Count   int                    `json:"count"`
	Failed  int                    `json:"failed"`
	MinMs   int64                  `json:"min_ms"`
	MaxMs   int64                  `json:"max_ms"`
	AvgMs   float64                `json:"avg_ms"`
	P50Ms   float64                `json:"p50_ms"`
	P95Ms   float64                `json:"p95_ms"`
	P99Ms   float64                `json:"p99_ms"`
	Formats map[string]FormatCount `json:"formats"`
}

// RenderStats tracks recent renders within a rolling window. Safe for
// concurrent use.
type RenderStats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
	now     func() time.Time
}

func NewRenderStats(maxAge time.Duration) *RenderStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &RenderStats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Record adds one render of the given source format.
func (s *RenderStats) Record(format string, d time.Duration, err error) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		at:         now,
		format:     format,
		durationMs: ms,
		failed:     err != nil,
	})
}

func (s *RenderStats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	snap := Snapshot{Formats: make(map[string]FormatCount)}
	if len(s.samples) == 0 {
		return snap
	}

	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		fc := snap.Formats[sm.format]
		if sm.failed {
			fc.Failed++
			snap.Failed++
		} else {
			fc.Rendered++
			values = append(values, sm.durationMs)
			sum += sm.durationMs
		}
		snap.Formats[sm.format] = fc
	}
	if len(values) == 0 {
		return snap
	}
	slices.Sort(values)

	snap.Count = len(values)
	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

func (s *RenderStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	s.samples = slices.DeleteFunc(s.samples, func(sm sample) bool {
		return sm.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(index-float64(lower))
}
