package handler

import (
	"log/slog"
	"net/http"

	"github.com/castleviz/castleviz/internal/handler/dto"
	"github.com/castleviz/castleviz/internal/service"
)

// BillHandler handles HTTP requests for bill operations.
type BillHandler struct {
	svc    *service.BillService
	logger *slog.Logger
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(svc *service.BillService, logger *slog.Logger) *BillHandler {
	return &BillHandler{svc: svc, logger: logger}
}

// Create handles POST /bills/.
func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decode(w, r)
	if !ok {
		return
	}

	b, err := h.svc.Create(r.Context(), input)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("bill_created", "bill_id", b.ID, "user_id", b.UserID, "status", b.Status)
	writeJSON(w, http.StatusOK, dto.ToBillResponse(b))
}

// List handles GET /bills/?skip=&limit=.
func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := queryWindow(w, r)
	if !ok {
		return
	}

	bills, err := h.svc.List(r.Context(), skip, limit)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToBillResponses(bills))
}

// All handles GET /bills/all.
func (h *BillHandler) All(w http.ResponseWriter, r *http.Request) {
	bills, err := h.svc.All(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToBillResponses(bills))
}

// Get handles GET /bills/{id}.
func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToBillResponse(b))
}

// Update handles PUT /bills/{id}.
func (h *BillHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	input, ok := h.decode(w, r)
	if !ok {
		return
	}

	b, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("bill_updated", "bill_id", b.ID, "status", b.Status)
	writeJSON(w, http.StatusOK, dto.ToBillResponse(b))
}

// Delete handles DELETE /bills/{id}.
func (h *BillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("bill_deleted", "bill_id", id)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Bill deleted successfully"})
}

func (h *BillHandler) decode(w http.ResponseWriter, r *http.Request) (service.BillInput, bool) {
	var req dto.BillRequest
	if !decodeJSON(w, r, &req) {
		return service.BillInput{}, false
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return service.BillInput{}, false
	}
	userID, ok := parseUserID(w, *req.UserID)
	if !ok {
		return service.BillInput{}, false
	}
	return service.BillInput{
		Category: *req.Category,
		Vendor:   *req.Vendor,
		Amount:   *req.Amount,
		Status:   *req.Status,
		UserID:   userID,
	}, true
}
