package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/moba-draft/internal/draft"
	"github.com/ramonehamilton/moba-draft/internal/metrics"
	"github.com/ramonehamilton/moba-draft/internal/recommend"
	"github.com/ramonehamilton/moba-draft/internal/roster"
)

// fakeBroadcaster records published events.
type fakeBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeBroadcaster) Broadcast(eventType string, _ interface{}) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
	return true
}

func (f *fakeBroadcaster) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

type testEnv struct {
	router  *chi.Mux
	board   *draft.Board
	metrics *metrics.RecommendMetrics
	events  *fakeBroadcaster
}

func testRoster(t *testing.T) *roster.Roster {
	t.Helper()
	r, err := roster.New([]*roster.Character{
		{Name: "Aurora", Roles: []roster.Role{roster.RoleMid}, Synergies: map[string]float64{"Cinder": 60}},
		{Name: "Brakk", Roles: []roster.Role{roster.RoleBaron}, Counters: map[string]float64{"Dawn": 50}},
		{Name: "Cinder", Roles: []roster.Role{roster.RoleJungle}},
		{Name: "Dawn", Roles: []roster.Role{roster.RoleSupport}, Counters: map[string]float64{"Brakk": 20}},
		{Name: "Echo", Roles: []roster.Role{roster.RoleMid}, Icon: "echo.png"},
	})
	require.NoError(t, err)
	return r
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	provider := roster.StaticProvider(testRoster(t))
	m, err := metrics.NewRecommendMetrics(nil)
	require.NoError(t, err)

	env := &testEnv{
		router:  chi.NewRouter(),
		board:   draft.NewBoard(),
		metrics: m,
		events:  &fakeBroadcaster{},
	}

	ranker := NewRanker(provider, recommend.DefaultConfig(), m)
	rosterHandler := NewRosterHandler(provider)
	recommendHandler := NewRecommendHandler(ranker)
	boardHandler := NewBoardHandler(env.board, ranker, env.events)
	systemHandler := NewSystemHandler(provider, m)

	env.router.Get("/health", systemHandler.Health)
	env.router.Get("/stats", systemHandler.GetStats)
	env.router.Get("/roster", rosterHandler.GetRosterInfo)
	env.router.Get("/characters", rosterHandler.ListCharacters)
	env.router.Get("/characters/{name}", rosterHandler.GetCharacter)
	env.router.Post("/recommendations", recommendHandler.Recommend)
	env.router.Get("/board", boardHandler.GetBoard)
	env.router.Post("/board/select", boardHandler.SelectSlot)
	env.router.Post("/board/lock", boardHandler.LockCharacter)
	env.router.Delete("/board/selection", boardHandler.ClearSelection)
	env.router.Post("/board/reset", boardHandler.Reset)
	env.router.Get("/board/recommendations", boardHandler.GetRecommendations)

	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

type listBody[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

func decodeList[T any](t *testing.T, w *httptest.ResponseRecorder) listBody[T] {
	t.Helper()
	var body listBody[T]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var body struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body.Data
}

func names(views []RecommendationView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Name
	}
	return out
}

func TestListCharacters(t *testing.T) {
	env := setupEnv(t)

	tests := []struct {
		name   string
		query  string
		status int
		want   []string
	}{
		{"all ascending", "", http.StatusOK, []string{"Aurora", "Brakk", "Cinder", "Dawn", "Echo"}},
		{"descending", "?order=desc", http.StatusOK, []string{"Echo", "Dawn", "Cinder", "Brakk", "Aurora"}},
		{"search is case-insensitive", "?search=AK", http.StatusOK, []string{"Brakk"}},
		{"role filter", "?role=Mid", http.StatusOK, []string{"Aurora", "Echo"}},
		{"unknown role", "?role=Top", http.StatusBadRequest, nil},
		{"bad order", "?order=sideways", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/characters"+tt.query, nil)
			require.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				return
			}

			body := decodeList[CharacterView](t, w)
			got := make([]string, len(body.Data))
			for i, c := range body.Data {
				got[i] = c.Name
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), body.Count)
		})
	}
}

func TestGetCharacter(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodGet, "/characters/Echo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	c := decodeData[CharacterView](t, w)
	assert.Equal(t, "echo.png", c.Icon)
	assert.NotNil(t, c.Counters)

	w = env.do(t, http.MethodGet, "/characters/Nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecommend(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodPost, "/recommendations", RecommendRequest{
		Allies:  []string{"Aurora", "", "", "", ""},
		Enemies: []string{"Brakk", "", "Ghost", "", ""},
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeList[RecommendationView](t, w)
	// Echo shares Aurora's filled Mid role; Aurora and Brakk are on the board.
	require.Equal(t, []string{"Cinder", "Dawn"}, names(body.Data))

	cinder := body.Data[0]
	assert.InDelta(t, 0.60, cinder.Score, 1e-9)
	assert.Equal(t, "+0.60", cinder.Delta)
	assert.Equal(t, []string{"Synergy with Aurora (+0.60)"}, cinder.Reasons)

	dawn := body.Data[1]
	assert.InDelta(t, 0.30, dawn.Score, 1e-9)
	assert.Equal(t, []string{"Counters Brakk (+0.50)", "Countered by Brakk (-0.20)"}, dawn.Reasons)

	assert.EqualValues(t, 1, env.metrics.Stats().Requests)
}

func TestRecommendLimitAndExclusion(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodPost, "/recommendations", RecommendRequest{Excluded: []string{"Aurora"}, Limit: 2})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeList[RecommendationView](t, w)
	assert.Equal(t, []string{"Brakk", "Cinder"}, names(body.Data), "zero scores keep roster order")
	for _, rec := range body.Data {
		assert.NotNil(t, rec.Reasons)
		assert.Empty(t, rec.Reasons)
	}
}

func TestRecommendEmptyResult(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodPost, "/recommendations", RecommendRequest{
		Excluded: []string{"Aurora", "Brakk", "Cinder", "Dawn", "Echo"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"count":0}`, w.Body.String())
	assert.EqualValues(t, 1, env.metrics.Stats().EmptyResults)
}

func TestRecommendValidation(t *testing.T) {
	env := setupEnv(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"too many allies", RecommendRequest{Allies: []string{"a", "b", "c", "d", "e", "f"}}},
		{"negative limit", RecommendRequest{Limit: -1}},
		{"malformed", "not an object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/recommendations", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestBoardFlow(t *testing.T) {
	env := setupEnv(t)

	// Nothing selected yet: no suggestions.
	w := env.do(t, http.MethodGet, "/board/recommendations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList[RecommendationView](t, w).Data)

	w = env.do(t, http.MethodPost, "/board/lock", LockRequest{Name: "Aurora"})
	assert.Equal(t, http.StatusConflict, w.Code, "lock without selection")

	index := 0
	w = env.do(t, http.MethodPost, "/board/select", SelectRequest{Side: "red", Index: &index, Type: "pick"})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/board/lock", LockRequest{Name: "Brakk"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/board/select", SelectRequest{Side: "blue", Index: &index, Type: "pick"})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/board/lock", LockRequest{Name: "Aurora"})
	require.Equal(t, http.StatusOK, w.Code)

	state := decodeData[draft.State](t, w)
	assert.Equal(t, "Aurora", state.BluePicks[0])
	assert.Equal(t, "Brakk", state.RedPicks[0])
	assert.Nil(t, state.Selection)

	second := 1
	w = env.do(t, http.MethodPost, "/board/select", SelectRequest{Side: "blue", Index: &second, Type: "pick"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/board/recommendations?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Cinder"}, names(decodeList[RecommendationView](t, w).Data))

	w = env.do(t, http.MethodPost, "/board/lock", LockRequest{Name: "Brakk"})
	assert.Equal(t, http.StatusConflict, w.Code, "Brakk is already picked")

	w = env.do(t, http.MethodDelete, "/board/selection", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeData[draft.State](t, w).Selection)

	w = env.do(t, http.MethodPost, "/board/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", decodeData[draft.State](t, w).BluePicks[0])

	// Three selects, two locks, one clear and one reset succeeded.
	assert.Equal(t, 7, env.events.count())
}

func TestBoardValidation(t *testing.T) {
	env := setupEnv(t)

	six := 6
	zero := 0
	tests := []struct {
		name   string
		path   string
		body   interface{}
		status int
	}{
		{"index out of range", "/board/select", SelectRequest{Side: "blue", Index: &six, Type: "pick"}, http.StatusBadRequest},
		{"missing index", "/board/select", SelectRequest{Side: "blue", Type: "pick"}, http.StatusBadRequest},
		{"bad side", "/board/select", SelectRequest{Side: "green", Index: &zero, Type: "pick"}, http.StatusBadRequest},
		{"bad type", "/board/select", SelectRequest{Side: "red", Index: &zero, Type: "swap"}, http.StatusBadRequest},
		{"missing name", "/board/lock", LockRequest{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := env.do(t, http.MethodGet, "/board/recommendations?limit=-2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/board/select", SelectRequest{Side: "blue", Index: &zero, Type: "pick"})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/board/lock", LockRequest{Name: "Nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBanSelectionHasNoSuggestions(t *testing.T) {
	env := setupEnv(t)

	index := 2
	w := env.do(t, http.MethodPost, "/board/select", SelectRequest{Side: "blue", Index: &index, Type: "ban"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/board/recommendations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"count":0}`, w.Body.String())
}

func TestSystemEndpoints(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decodeData[map[string]interface{}](t, w)
	assert.Equal(t, "ok", health["status"])
	assert.EqualValues(t, 5, health["characters"])

	env.do(t, http.MethodPost, "/recommendations", RecommendRequest{})
	w = env.do(t, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeData[metrics.RecommendStats](t, w)
	assert.EqualValues(t, 1, stats.Requests)
	assert.EqualValues(t, 5, stats.CandidatesScored)

	w = env.do(t, http.MethodGet, "/roster", nil)
	require.Equal(t, http.StatusOK, w.Code)
	info := decodeData[RosterInfo](t, w)
	assert.Equal(t, 5, info.Characters)
	assert.Empty(t, info.Dangling)
}
