package handler

import (
	"log/slog"
	"net/http"

	"github.com/castleviz/castleviz/internal/handler/dto"
	"github.com/castleviz/castleviz/internal/service"
)

// PaymentHandler handles HTTP requests for payment operations.
type PaymentHandler struct {
	svc    *service.PaymentService
	logger *slog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc *service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, logger: logger}
}

// Create handles POST /payments/.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decode(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Create(r.Context(), input)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("payment_created", "payment_id", p.ID, "user_id", p.UserID)
	writeJSON(w, http.StatusOK, dto.ToPaymentResponse(p))
}

// List handles GET /payments/?current_user_id=&skip=&limit=.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("current_user_id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "current_user_id is required")
		return
	}
	userID, ok := parseUserID(w, raw)
	if !ok {
		return
	}
	skip, limit, ok := queryWindow(w, r)
	if !ok {
		return
	}

	payments, err := h.svc.List(r.Context(), userID, skip, limit)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToPaymentResponses(payments))
}

// Latest handles GET /payments/latest.
func (h *PaymentHandler) Latest(w http.ResponseWriter, r *http.Request) {
	latest, err := h.svc.Latest(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

// All handles GET /payments/all.
func (h *PaymentHandler) All(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.All(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToPaymentResponses(payments))
}

// Get handles GET /payments/{id}.
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToPaymentResponse(p))
}

// Update handles PUT /payments/{id}.
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	input, ok := h.decode(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("payment_updated", "payment_id", p.ID)
	writeJSON(w, http.StatusOK, dto.ToPaymentResponse(p))
}

// Delete handles DELETE /payments/{id}.
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("payment_deleted", "payment_id", id)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Payment deleted successfully"})
}

func (h *PaymentHandler) decode(w http.ResponseWriter, r *http.Request) (service.PaymentInput, bool) {
	var req dto.PaymentRequest
	if !decodeJSON(w, r, &req) {
		return service.PaymentInput{}, false
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return service.PaymentInput{}, false
	}
	userID, ok := parseUserID(w, *req.UserID)
	if !ok {
		return service.PaymentInput{}, false
	}
	return service.PaymentInput{
		Category: *req.Category,
		Vendor:   *req.Vendor,
		Amount:   *req.Amount,
		UserID:   userID,
	}, true
}
