package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/dbenamy/hack-retro/internal/api/handler"
	customMiddleware "github.com/dbenamy/hack-retro/internal/api/middleware"
	"github.com/dbenamy/hack-retro/internal/config"
)

// NewRouter creates and configures the control API router
func NewRouter(cfg config.APIConfig, sessionHandler *handler.SessionHandler, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger(logger))
	r.Use(middleware.Recoverer)
	if cfg.WriteTimeout > 0 {
		r.Use(middleware.Timeout(cfg.WriteTimeout))
	}

	// CORS, for surfaces running in a browser
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", sessionHandler.Ready)

		r.Get("/state", sessionHandler.State)
		r.Put("/viewport", sessionHandler.Scroll)
		r.Put("/inputs/{field}", sessionHandler.TypeInput)

		// joining
		r.Post("/join", sessionHandler.Join)
		r.Post("/start", sessionHandler.Start)

		// brainstorming
		r.Post("/topics", sessionHandler.AddTopic)
		r.Post("/grouping", sessionHandler.GoToGrouping)

		// grouping
		r.Route("/drags/{text}", func(r chi.Router) {
			r.Post("/start", sessionHandler.DragStart)
			r.Post("/move", sessionHandler.DragMove)
			r.Post("/end", sessionHandler.DragEnd)
		})
		r.Post("/voting", sessionHandler.GoToVoting)

		// voting
		r.Post("/votes/{clusterID}", sessionHandler.Vote)
		r.Delete("/votes/{clusterID}", sessionHandler.Unvote)
		r.Post("/discussion", sessionHandler.FinishVoting)

		// discussion
		r.Post("/actions", sessionHandler.AddAction)
	})

	return r
}
