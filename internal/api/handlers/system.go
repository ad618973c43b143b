package handlers

import (
	"net/http"

	"github.com/ramonehamilton/moba-draft/internal/api/response"
	"github.com/ramonehamilton/moba-draft/internal/metrics"
	"github.com/ramonehamilton/moba-draft/internal/roster"
	"github.com/ramonehamilton/moba-draft/internal/version"
)

// SystemHandler serves health and stats endpoints.
type SystemHandler struct {
	provider *roster.Provider
	metrics  *metrics.RecommendMetrics
}

// NewSystemHandler creates a new SystemHandler. m may be nil.
func NewSystemHandler(provider *roster.Provider, m *metrics.RecommendMetrics) *SystemHandler {
	return &SystemHandler{provider: provider, metrics: m}
}

// Health reports liveness and the loaded roster size.
// GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]interface{}{
		"status":     "ok",
		"version":    version.String(),
		"characters": h.provider.Current().Len(),
	})
}

// GetStats returns the in-process recommendation metrics.
// GET /api/v1/stats
func (h *SystemHandler) GetStats(w http.ResponseWriter, _ *http.Request) {
	if h.metrics == nil {
		response.Success(w, &metrics.RecommendStats{})
		return
	}
	response.Success(w, h.metrics.Stats())
}
