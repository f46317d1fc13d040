package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/signal-verifier/internal/application/link"
	"github.com/signal-verifier/internal/application/verify"
	"github.com/signal-verifier/internal/config"
	"github.com/signal-verifier/internal/transport/http/handler"
	appmiddleware "github.com/signal-verifier/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds the dependencies the router needs.
type Deps struct {
	LinkSvc link.Service
	Worker  *verify.Worker
	History handler.HistoryReader
}

// NewRouter builds and returns the linking-flow router. The verification
// pipeline itself has no HTTP surface; only the OAuth hand-off does.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — the linking endpoints are public.
	linkRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	linkH := handler.NewLinkHandler(deps.LinkSvc)
	verifH := handler.NewVerificationHandler(deps.Worker, deps.History)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Post("/verifications", verifH.Submit)
		r.Get("/users/{userID}/history", verifH.History)
		r.Get("/links/{userID}", linkH.Status)
		r.Delete("/links/{userID}", linkH.Unlink)
	})

	r.Group(func(r chi.Router) {
		r.Use(linkRL.Limit)
		r.Get("/x/start", linkH.Start)
		r.Get("/x/callback", linkH.Callback)
	})

	return r
}
