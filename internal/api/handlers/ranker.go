package handlers

import (
	"time"

	"github.com/ramonehamilton/moba-draft/internal/metrics"
	"github.com/ramonehamilton/moba-draft/internal/recommend"
	"github.com/ramonehamilton/moba-draft/internal/roster"
)

// Ranker runs the recommendation engine against the current roster and
// records each call.
type Ranker struct {
	provider *roster.Provider
	config   recommend.Config
	metrics  *metrics.RecommendMetrics
}

// NewRanker creates a Ranker. m may be nil.
func NewRanker(provider *roster.Provider, config recommend.Config, m *metrics.RecommendMetrics) *Ranker {
	return &Ranker{provider: provider, config: config, metrics: m}
}

// Roster returns the roster in effect right now.
func (rk *Ranker) Roster() *roster.Roster {
	return rk.provider.Current()
}

// Rank ranks every eligible character of r for snapshot s.
// The engine is rebuilt per call so roster reloads take effect immediately.
func (rk *Ranker) Rank(r *roster.Roster, s recommend.Snapshot) []*recommend.Recommendation {
	start := time.Now()
	recs := recommend.NewEngine(r, rk.config).Recommend(s)
	if rk.metrics != nil {
		rk.metrics.ObserveRank(time.Since(start), len(recs))
	}
	return recs
}
