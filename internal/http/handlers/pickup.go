package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wm-pickup/internal/domain"
	"wm-pickup/internal/logx"
)

// PickupHandler serves account, holiday and pickup endpoints.
type PickupHandler struct {
	logger logx.Logger
	uc     pickupUsecase
}

// NewPickupHandler wires a pickupUsecase into HTTP handlers.
func NewPickupHandler(logger logx.Logger, uc pickupUsecase) *PickupHandler {
	logger = logx.OrNop(logger)
	return &PickupHandler{logger: logger, uc: uc}
}

// Accounts handles GET /accounts.
func (h *PickupHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	list, err := h.uc.Accounts(r.Context())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, accountsToResponse(list))
}

// Services handles GET /accounts/{accountID}/services.
func (h *PickupHandler) Services(w http.ResponseWriter, r *http.Request) {
	list, err := h.uc.Services(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, servicesToResponse(list))
}

// Holidays handles GET /accounts/{accountID}/holidays?type=all|upcoming.
func (h *PickupHandler) Holidays(w http.ResponseWriter, r *http.Request) {
	typ := domain.HolidayType(r.URL.Query().Get("type"))
	impact, err := h.uc.Holidays(r.Context(), chi.URLParam(r, "accountID"), typ)
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, impactToResponse(impact))
}

// Pickups handles GET /accounts/{accountID}/services/{serviceID}/pickups.
func (h *PickupHandler) Pickups(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.Pickups(r.Context(), chi.URLParam(r, "accountID"), chi.URLParam(r, "serviceID"))
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, scheduleToResponse(s))
}
