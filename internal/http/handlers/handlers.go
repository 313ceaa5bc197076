package handlers

import (
	"net/http"

	"wm-pickup/internal/logx"
)

// SessionHeader reports the provider session on health checks.
const SessionHeader = "X-Provider-Session"

// Handlers serves ping, the healthcheck and the fallback 404.
type Handlers struct {
	Logger  logx.Logger
	session sessionReporter
}

// New creates Handlers. session may be nil; the healthcheck then reports "unknown".
func New(logger logx.Logger, session sessionReporter) *Handlers {
	return &Handlers{Logger: logx.OrNop(logger), session: session}
}

// Ping handles GET /ping and returns 200 with {"message":"pong"}.
func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.Logger, w, r, http.StatusOK, map[string]string{
		"message":          "pong",
		"provider_session": h.sessionState(),
	})
}

// HealthcheckHead handles HEAD /healthcheck. The service stays healthy
// without a session because the next account call logs in.
func (h *Handlers) HealthcheckHead(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(SessionHeader, h.sessionState())
	w.WriteHeader(http.StatusNoContent)
}

// NotFound returns a JSON 404 error for unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(h.Logger, w, r, http.StatusNotFound, "route not found")
}

func (h *Handlers) sessionState() string {
	switch {
	case h.session == nil:
		return "unknown"
	case h.session.SessionActive():
		return "active"
	default:
		return "none"
	}
}
