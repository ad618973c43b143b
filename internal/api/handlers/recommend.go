package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ramonehamilton/moba-draft/internal/api/response"
	"github.com/ramonehamilton/moba-draft/internal/recommend"
)

// RecommendRequest is a stateless board description.
// Empty strings and unknown names are treated as empty slots.
type RecommendRequest struct {
	Allies   []string `json:"allies" validate:"max=5"`
	Enemies  []string `json:"enemies" validate:"max=5"`
	Excluded []string `json:"excluded"`
	Limit    int      `json:"limit" validate:"gte=0"` // 0 returns the full ranking
}

// RecommendHandler ranks candidates for a board supplied by the caller.
type RecommendHandler struct {
	ranker   *Ranker
	validate *validator.Validate
}

// NewRecommendHandler creates a new RecommendHandler.
func NewRecommendHandler(ranker *Ranker) *RecommendHandler {
	return &RecommendHandler{ranker: ranker, validate: validator.New()}
}

// Recommend ranks every eligible character for the posted board.
// POST /api/v1/recommendations
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	current := h.ranker.Roster()
	snapshot := recommend.NewSnapshot(current, req.Allies, req.Enemies, req.Excluded)
	recs := h.ranker.Rank(current, snapshot)
	if req.Limit > 0 {
		recs = recommend.Top(recs, req.Limit)
	}

	views := newRecommendationViews(recs)
	response.List(w, views, len(views))
}
