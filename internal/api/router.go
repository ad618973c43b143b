package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ramonehamilton/moba-draft/internal/api/handlers"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	ranker := handlers.NewRanker(s.roster, s.engine, s.metrics)

	systemHandler := handlers.NewSystemHandler(s.roster, s.metrics)
	rosterHandler := handlers.NewRosterHandler(s.roster)
	recommendHandler := handlers.NewRecommendHandler(ranker)
	boardHandler := handlers.NewBoardHandler(s.board, ranker, s.wsHub)

	s.router.Get("/health", systemHandler.Health)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	s.router.Get("/ws", s.wsHub.ServeWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/roster", rosterHandler.GetRosterInfo)

		r.Route("/characters", func(r chi.Router) {
			r.Get("/", rosterHandler.ListCharacters)
			r.Get("/{name}", rosterHandler.GetCharacter)
		})

		r.Post("/recommendations", recommendHandler.Recommend)

		r.Route("/board", func(r chi.Router) {
			r.Get("/", boardHandler.GetBoard)
			r.Post("/select", boardHandler.SelectSlot)
			r.Post("/lock", boardHandler.LockCharacter)
			r.Delete("/selection", boardHandler.ClearSelection)
			r.Post("/reset", boardHandler.Reset)
			r.Get("/recommendations", boardHandler.GetRecommendations)
		})

		r.Get("/stats", systemHandler.GetStats)
	})
}
