package notify

import (
	"slices"
	"sync"
	"time"
)

type attempt struct {
	at         time.Time
	durationMs int64
	ok         bool
}

// StatsSnapshot aggregates the webhook attempts still inside the window.
type StatsSnapshot struct {
	Attempts  int     `json:"attempts"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	MinMs     int64   `json:"min_ms"`
	MaxMs     int64   `json:"max_ms"`
	AvgMs     float64 `json:"avg_ms"`
	P50Ms     float64 `json:"p50_ms"`
	P95Ms     float64 `json:"p95_ms"`
}

// DeliveryStats keeps webhook round-trip times for a rolling window.
type DeliveryStats struct {
	mu       sync.Mutex
	attempts []attempt
	window   time.Duration
}

func NewDeliveryStats(window time.Duration) *DeliveryStats {
	if window <= 0 {
		window = time.Hour
	}
	return &DeliveryStats{
		attempts: make([]attempt, 0, 128),
		window:   window,
	}
}

// Record adds one attempt. Negative durations count as zero.
func (s *DeliveryStats) Record(d time.Duration, ok bool) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(now)
	s.attempts = append(s.attempts, attempt{at: now, durationMs: ms, ok: ok})
}

func (s *DeliveryStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(now)

	var snap StatsSnapshot
	if len(s.attempts) == 0 {
		return snap
	}
	durations := make([]int64, len(s.attempts))
	var sum int64
	for i, a := range s.attempts {
		durations[i] = a.durationMs
		sum += a.durationMs
		if a.ok {
			snap.Succeeded++
		} else {
			snap.Failed++
		}
	}
	slices.Sort(durations)

	snap.Attempts = len(durations)
	snap.MinMs = durations[0]
	snap.MaxMs = durations[len(durations)-1]
	snap.AvgMs = float64(sum) / float64(len(durations))
	snap.P50Ms = interpolate(durations, 0.50)
	snap.P95Ms = interpolate(durations, 0.95)
	return snap
}

func (s *DeliveryStats) evictLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	i := 0
	for i < len(s.attempts) && s.attempts[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		s.attempts = append(s.attempts[:0], s.attempts[i:]...)
	}
}

// interpolate reads quantile q (0..1) from sorted values, linearly between
// neighbouring ranks.
func interpolate(sorted []int64, q float64) float64 {
	if len(sorted) == 1 || q <= 0 {
		return float64(sorted[0])
	}
	if q >= 1 {
		return float64(sorted[len(sorted)-1])
	}
	pos := float64(len(sorted)-1) * q
	lo := int(pos)
	if lo+1 >= len(sorted) {
		return float64(sorted[lo])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}
