package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/http/export"
	"github.com/MrJamesThe3rd/tally/internal/http/group"
	"github.com/MrJamesThe3rd/tally/internal/http/invite"
	"github.com/MrJamesThe3rd/tally/internal/http/profile"
	"github.com/MrJamesThe3rd/tally/internal/http/realtime"
	"github.com/MrJamesThe3rd/tally/internal/http/stats"
	"github.com/MrJamesThe3rd/tally/internal/http/transaction"
	"github.com/MrJamesThe3rd/tally/internal/metrics"
)

// Handlers bundles the versioned API handlers.
type Handlers struct {
	Transactions *transaction.Handler
	Stats        *stats.Handler
	Groups       *group.Handler
	Invites      *invite.Handler
	Profiles     *profile.Handler
	Export       *export.Handler
	Realtime     *realtime.Handler
}

type Options struct {
	AllowedOrigins []string
	Verifier       *auth.Verifier
	Metrics        *metrics.Metrics
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", auth.HeaderUserID},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
		router.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})

	if h.Realtime != nil {
		router.Route("/ws", h.Realtime.Routes)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json", "multipart/form-data"))
			h.Transactions.Routes(r)
		})

		r.Route("/splits", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.SplitRoutes(r)
		})

		r.Route("/stats", h.Stats.Routes)

		r.Route("/groups", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Groups.Routes(r)
			r.Route("/{id}/invites", h.Invites.GroupRoutes)
		})

		r.Route("/invites", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Invites.Routes(r)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Use(auth.Middleware(opts.Verifier))
			h.Profiles.Routes(r)
		})

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Export.Routes(r)
		})
	})

	return router
}
