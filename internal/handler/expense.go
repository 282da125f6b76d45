package handler

import (
	"log/slog"
	"net/http"

	"github.com/castleviz/castleviz/internal/handler/dto"
	"github.com/castleviz/castleviz/internal/service"
)

// ExpenseHandler serves the merged bill and payment feed.
type ExpenseHandler struct {
	svc    *service.ExpenseService
	logger *slog.Logger
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(svc *service.ExpenseService, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{svc: svc, logger: logger}
}

// Filtered handles GET /expenses/filtered?query=&page=&items_per_page=.
func (h *ExpenseHandler) Filtered(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	perPage, err := queryInt(r, "items_per_page", service.DefaultItemsPerPage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	expenses, err := h.svc.SearchExpenses(r.Context(), r.URL.Query().Get("query"), page, perPage)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

// Pages handles GET /expenses/pages?query=&items_per_page=.
func (h *ExpenseHandler) Pages(w http.ResponseWriter, r *http.Request) {
	perPage, err := queryInt(r, "items_per_page", service.DefaultItemsPerPage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	pages, err := h.svc.CountPages(r.Context(), r.URL.Query().Get("query"), perPage)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PagesResponse{TotalPages: pages})
}
