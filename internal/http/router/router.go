package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wm-pickup/internal/http/handlers"
	obs "wm-pickup/internal/http/middleware"
	"wm-pickup/internal/http/middleware/ratelimit"
	"wm-pickup/internal/logx"
)

// requestTimeout covers a provider login plus the calls of one operation.
const requestTimeout = 20 * time.Second

// New constructs a chi-based http.Handler with base middleware and routes.
// rl may be nil to disable rate limiting.
func New(logger logx.Logger, h *handlers.Handlers, p *handlers.PickupHandler, rl *ratelimit.Middleware) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(obs.Observability(logger))
	r.Use(middleware.Recoverer)

	r.Get("/ping", h.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.HealthcheckHead))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if rl != nil {
			r.Use(rl.Handler())
		}
		r.Use(middleware.Timeout(requestTimeout))

		r.Get("/accounts", p.Accounts)
		r.Route("/accounts/{accountID}", func(r chi.Router) {
			r.Get("/services", p.Services)
			r.Get("/holidays", p.Holidays)
			r.Get("/services/{serviceID}/pickups", p.Pickups)
		})
	})

	r.NotFound(http.HandlerFunc(h.NotFound))

	return r
}
