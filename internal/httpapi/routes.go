package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const apiBasePath = "/api"

// NewRouter mounts every route under /api. timeout bounds each request.
func NewRouter(svc FeedService, logger *slog.Logger, timeout time.Duration) http.Handler {
	h := NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	r.Route(apiBasePath, func(r chi.Router) {
		r.Get("/healthz", h.Healthz)

		r.Post("/feed", h.wrap(h.Feed))
		r.Post("/feed/older", h.wrap(h.FeedOlder))
		r.Post("/feed/newer", h.wrap(h.FeedNewer))
		r.Post("/notifications", h.wrap(h.Notifications))

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.wrap(h.Accounts))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/posts/{postId}", h.wrap(h.Post))
				r.Get("/posts/{postId}/comments", h.wrap(h.PostComments))
				r.Post("/actions/{action}", h.wrap(h.Action))
				r.Get("/pages", h.wrap(h.Pages))
				r.Get("/profile", h.wrap(h.Profile))
			})
		})

		r.Route("/providers", func(r chi.Router) {
			r.Get("/", h.wrap(h.Providers))
			r.Get("/{name}/auth", h.wrap(h.AuthURL))
			r.Post("/{name}/callback", h.wrap(h.Callback))
		})
	})

	return r
}
