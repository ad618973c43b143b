package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "draftplanner"

// LatencyStats summarizes a latency histogram. All values are milliseconds.
type LatencyStats struct {
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// RecommendStats is a point-in-time snapshot of RecommendMetrics.
type RecommendStats struct {
	RankLatency      LatencyStats `json:"rank_latency"`
	Requests         uint64       `json:"requests"`
	EmptyResults     uint64       `json:"empty_results"`
	CandidatesScored uint64       `json:"candidates_scored"`
	RosterReloads    uint64       `json:"roster_reloads"`
	EmptyRate        float64      `json:"empty_rate"` // percentage
	Uptime           string       `json:"uptime"`
}

// RecommendMetrics tracks ranking calls.
type RecommendMetrics struct {
	RankLatency *Histogram

	requests      atomic.Uint64
	emptyResults  atomic.Uint64
	scored        atomic.Uint64
	rosterReloads atomic.Uint64

	mu        sync.RWMutex
	startTime time.Time

	promLatency  prometheus.Histogram
	promRequests prometheus.Counter
	promEmpty    prometheus.Counter
	promScored   prometheus.Counter
	promReloads  prometheus.Counter
}

// NewRecommendMetrics creates the collectors and registers them on reg.
// A nil reg keeps the metrics in-process only.
func NewRecommendMetrics(reg prometheus.Registerer) (*RecommendMetrics, error) {
	m := &RecommendMetrics{
		RankLatency: NewHistogram(defaultHistogramSize),
		startTime:   time.Now(),
		promLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rank_duration_seconds",
			Help:      "Time spent ranking candidates for one board state",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		promRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_requests_total",
			Help:      "Number of ranking calls",
		}),
		promEmpty: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_empty_results_total",
			Help:      "Ranking calls that produced no eligible candidate",
		}),
		promScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_scored_total",
			Help:      "Candidates that passed eligibility and were scored",
		}),
		promReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_reloads_total",
			Help:      "Successful roster reloads",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.promLatency, m.promRequests, m.promEmpty, m.promScored, m.promReloads} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// ObserveRank records one ranking call that scored n candidates.
func (m *RecommendMetrics) ObserveRank(d time.Duration, n int) {
	m.RankLatency.Record(d)
	m.promLatency.Observe(d.Seconds())

	m.requests.Add(1)
	m.promRequests.Inc()

	m.scored.Add(uint64(n))
	m.promScored.Add(float64(n))

	if n == 0 {
		m.emptyResults.Add(1)
		m.promEmpty.Inc()
	}
}

// IncrementRosterReloads counts a successful roster reload.
func (m *RecommendMetrics) IncrementRosterReloads() {
	m.rosterReloads.Add(1)
	m.promReloads.Inc()
}

// Stats returns a snapshot of the in-process counters.
func (m *RecommendMetrics) Stats() *RecommendStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	requests := m.requests.Load()
	empty := m.emptyResults.Load()

	emptyRate := 0.0
	if requests > 0 {
		emptyRate = float64(empty) / float64(requests) * 100
	}

	return &RecommendStats{
		RankLatency:      m.RankLatency.Summary(),
		Requests:         requests,
		EmptyResults:     empty,
		CandidatesScored: m.scored.Load(),
		RosterReloads:    m.rosterReloads.Load(),
		EmptyRate:        emptyRate,
		Uptime:           time.Since(m.startTime).Round(time.Second).String(),
	}
}

// Reset clears the in-process counters. Prometheus counters are monotonic and
// are left alone.
func (m *RecommendMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RankLatency.Reset()
	m.requests.Store(0)
	m.emptyResults.Store(0)
	m.scored.Store(0)
	m.rosterReloads.Store(0)
	m.startTime = time.Now()
}
