package handler

import (
	"log/slog"
	"net/http"

	"github.com/castleviz/castleviz/internal/service"
)

// DashboardHandler serves the aggregate views.
type DashboardHandler struct {
	svc    *service.DashboardService
	logger *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc *service.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

// CardData handles GET /dashboard/card-data.
func (h *DashboardHandler) CardData(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.CardSummary(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ByMonth handles GET /expenses/by-month.
func (h *DashboardHandler) ByMonth(w http.ResponseWriter, r *http.Request) {
	revenue, err := h.svc.MonthlyRevenue(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, revenue)
}

// Vendors handles GET /vendors/.
func (h *DashboardHandler) Vendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.svc.Vendors(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

// Categories handles GET /categories/.
func (h *DashboardHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}
