// Package metrics records recommendation latency and volume, both in-process
// for the stats endpoint and as Prometheus collectors.
package metrics

import (
	"math"
	"sort"
	"sync"
	"time"
)

const defaultHistogramSize = 4096

// Histogram keeps the most recent duration samples in a ring buffer and
// computes percentiles over them. Values are reported in milliseconds.
type Histogram struct {
	mu      sync.RWMutex
	samples []float64
	next    int
	full    bool
}

// NewHistogram creates a histogram holding at most size samples.
// Once full, each new sample overwrites the oldest one.
func NewHistogram(size int) *Histogram {
	if size <= 0 {
		size = defaultHistogramSize
	}
	return &Histogram{samples: make([]float64, size)}
}

// Record adds a duration sample.
func (h *Histogram) Record(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.samples[h.next] = float64(d.Microseconds()) / 1000.0
	h.next++
	if h.next == len(h.samples) {
		h.next = 0
		h.full = true
	}
}

// values returns the live samples. Callers must hold the read lock.
func (h *Histogram) values() []float64 {
	if h.full {
		return h.samples
	}
	return h.samples[:h.next]
}

// Count returns the number of retained samples.
func (h *Histogram) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.values())
}

// Summary computes mean, min, max and the requested percentiles in one pass
// over a sorted copy of the samples.
func (h *Histogram) Summary() LatencyStats {
	h.mu.RLock()
	sorted := append([]float64(nil), h.values()...)
	h.mu.RUnlock()

	if len(sorted) == 0 {
		return LatencyStats{}
	}
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return LatencyStats{
		Mean:  sum / float64(len(sorted)),
		P50:   percentile(sorted, 50),
		P95:   percentile(sorted, 95),
		P99:   percentile(sorted, 99),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Count: len(sorted),
	}
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	fraction := index - float64(lower)
	return sorted[lower]*(1-fraction) + sorted[upper]*fraction
}

// Reset drops all samples.
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next = 0
	h.full = false
}
