package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/moba-draft/internal/api/response"
	"github.com/ramonehamilton/moba-draft/internal/roster"
)

// RosterHandler serves the character table.
type RosterHandler struct {
	provider *roster.Provider
}

// NewRosterHandler creates a new RosterHandler.
func NewRosterHandler(provider *roster.Provider) *RosterHandler {
	return &RosterHandler{provider: provider}
}

// ListCharacters returns the filtered, name-sorted character list.
// GET /api/v1/characters?search=&role=&order=asc|desc
func (h *RosterHandler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := roster.Filter{
		Search: q.Get("search"),
		Role:   roster.Role(q.Get("role")),
	}
	if filter.Role != "" && !filter.Role.Valid() {
		response.BadRequest(w, fmt.Errorf("unknown role %q", filter.Role))
		return
	}

	switch q.Get("order") {
	case "", "asc":
	case "desc":
		filter.Descending = true
	default:
		response.BadRequest(w, fmt.Errorf("order must be asc or desc"))
		return
	}

	views := newCharacterViews(roster.Apply(h.provider.Current(), filter))
	response.List(w, views, len(views))
}

// GetCharacter returns one character by name.
// GET /api/v1/characters/{name}
func (h *RosterHandler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	c, err := h.provider.Current().Get(name)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, newCharacterView(c))
}

// RosterInfo summarizes the loaded roster.
type RosterInfo struct {
	Characters int      `json:"characters"`
	Dangling   []string `json:"dangling_references"`
}

// GetRosterInfo returns the roster size and its dangling references.
// GET /api/v1/roster
func (h *RosterHandler) GetRosterInfo(w http.ResponseWriter, _ *http.Request) {
	current := h.provider.Current()
	dangling := current.DanglingReferences()
	if dangling == nil {
		dangling = []string{}
	}
	response.Success(w, RosterInfo{Characters: current.Len(), Dangling: dangling})
}
