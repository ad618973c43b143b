package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/ramonehamilton/moba-draft/internal/api/response"
	"github.com/ramonehamilton/moba-draft/internal/api/websocket"
	"github.com/ramonehamilton/moba-draft/internal/draft"
	"github.com/ramonehamilton/moba-draft/internal/recommend"
)

// Broadcaster publishes board events to listeners.
type Broadcaster interface {
	Broadcast(eventType string, data interface{}) bool
}

// SelectRequest selects a slot on the board.
type SelectRequest struct {
	Side  string `json:"side" validate:"required,oneof=blue red"`
	Index *int   `json:"index" validate:"required,gte=0,lte=4"`
	Type  string `json:"type" validate:"required,oneof=pick ban"`
}

// LockRequest locks a character into the selected slot.
type LockRequest struct {
	Name string `json:"name" validate:"required"`
}

// BoardHandler drives the shared draft board.
type BoardHandler struct {
	board    *draft.Board
	ranker   *Ranker
	events   Broadcaster
	validate *validator.Validate
}

// NewBoardHandler creates a new BoardHandler. events may be nil.
func NewBoardHandler(board *draft.Board, ranker *Ranker, events Broadcaster) *BoardHandler {
	return &BoardHandler{
		board:    board,
		ranker:   ranker,
		events:   events,
		validate: validator.New(),
	}
}

// GetBoard returns the board state.
// GET /api/v1/board
func (h *BoardHandler) GetBoard(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, h.board.State())
}

// SelectSlot marks a slot as the one being filled.
// POST /api/v1/board/select
func (h *BoardHandler) SelectSlot(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if err := h.board.SelectSlot(draft.Side(req.Side), *req.Index, draft.SlotType(req.Type)); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithState(w)
}

// LockCharacter writes a character into the selected slot.
// POST /api/v1/board/lock
func (h *BoardHandler) LockCharacter(w http.ResponseWriter, r *http.Request) {
	var req LockRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	c, err := h.ranker.Roster().Get(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.board.Lock(c); err != nil {
		writeError(w, err)
		return
	}
	h.respondWithState(w)
}

// ClearSelection drops the current selection.
// DELETE /api/v1/board/selection
func (h *BoardHandler) ClearSelection(w http.ResponseWriter, _ *http.Request) {
	h.board.ClearSelection()
	h.respondWithState(w)
}

// Reset empties the board.
// POST /api/v1/board/reset
func (h *BoardHandler) Reset(w http.ResponseWriter, _ *http.Request) {
	h.board.Reset()
	h.respondWithState(w)
}

// GetRecommendations ranks candidates for the selected pick slot.
// No selection or a ban selection yields an empty list.
// GET /api/v1/board/recommendations?limit=
func (h *BoardHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(w, fmt.Errorf("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	snapshot, ok := h.board.Snapshot()
	if !ok {
		response.List(w, []RecommendationView{}, 0)
		return
	}

	recs := h.ranker.Rank(h.ranker.Roster(), snapshot)
	if limit > 0 {
		recs = recommend.Top(recs, limit)
	}
	views := newRecommendationViews(recs)
	response.List(w, views, len(views))
}

func (h *BoardHandler) respondWithState(w http.ResponseWriter) {
	state := h.board.State()
	if h.events != nil {
		h.events.Broadcast(websocket.EventBoardUpdated, state)
	}
	response.Success(w, state)
}
