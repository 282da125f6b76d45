package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/castleviz/castleviz/internal/events"
	"github.com/castleviz/castleviz/internal/metrics"
	"github.com/castleviz/castleviz/internal/model"
	"github.com/castleviz/castleviz/internal/repository"
)

// LatestPaymentsLimit is the number of payments shown on the dashboard.
const LatestPaymentsLimit = 5

// PaymentInput holds the client-supplied fields of a payment.
type PaymentInput struct {
	Category string
	Vendor   string
	Amount   int64
	UserID   uuid.UUID
}

// PaymentService handles payment business logic.
type PaymentService struct {
	store    PaymentStore
	notifier mutationNotifier
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(store PaymentStore, recorder metrics.Recorder, publisher events.Publisher) *PaymentService {
	return &PaymentService{
		store:    store,
		notifier: newMutationNotifier("payment", recorder, publisher),
	}
}

// Create stores a new payment. The store assigns created_at.
func (s *PaymentService) Create(ctx context.Context, in PaymentInput) (*model.Payment, error) {
	if in.UserID == uuid.Nil {
		return nil, invalidInput("user_id is required")
	}

	p := &model.Payment{
		ID:       uuid.New(),
		Category: in.Category,
		Vendor:   in.Vendor,
		Amount:   in.Amount,
		UserID:   in.UserID,
	}
	if err := s.store.CreatePayment(ctx, p); err != nil {
		return nil, mapPaymentError(err)
	}

	s.notifier.notify(events.ActionCreated, p.ID, p.UserID)
	return p, nil
}

// Get retrieves a payment by ID.
func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	p, err := s.store.GetPaymentByID(ctx, id)
	if err != nil {
		return nil, mapPaymentError(err)
	}
	return p, nil
}

// List returns a page of the user's payments, newest first.
func (s *PaymentService) List(ctx context.Context, userID uuid.UUID, skip, limit int) ([]*model.Payment, error) {
	if userID == uuid.Nil {
		return nil, invalidInput("current_user_id is required")
	}
	if err := checkWindow(skip, limit); err != nil {
		return nil, err
	}
	return s.store.ListPayments(ctx, model.PaymentListFilter{UserID: userID}, skip, limit)
}

// Latest returns the newest payments with amounts rendered as currency.
func (s *PaymentService) Latest(ctx context.Context) ([]model.LatestPayment, error) {
	payments, err := s.store.ListLatestPayments(ctx, LatestPaymentsLimit)
	if err != nil {
		return nil, err
	}

	out := make([]model.LatestPayment, 0, len(payments))
	for _, p := range payments {
		out = append(out, model.LatestPayment{
			ID:       p.ID,
			Vendor:   p.Vendor,
			Category: p.Category,
			Amount:   model.FormatCents(p.Amount),
		})
	}
	return out, nil
}

// All returns every payment, newest first.
func (s *PaymentService) All(ctx context.Context) ([]*model.Payment, error) {
	return s.store.ListAllPayments(ctx)
}

// Update replaces every client field of the payment. created_at is kept.
func (s *PaymentService) Update(ctx context.Context, id uuid.UUID, in PaymentInput) (*model.Payment, error) {
	if in.UserID == uuid.Nil {
		return nil, invalidInput("user_id is required")
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	p := &model.Payment{
		ID:       id,
		Category: in.Category,
		Vendor:   in.Vendor,
		Amount:   in.Amount,
		UserID:   in.UserID,
	}
	if err := s.store.UpdatePayment(ctx, p); err != nil {
		return nil, mapPaymentError(err)
	}

	s.notifier.notify(events.ActionUpdated, p.ID, p.UserID)
	return p, nil
}

// Delete permanently removes the payment.
func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeletePayment(ctx, id); err != nil {
		return mapPaymentError(err)
	}

	s.notifier.notify(events.ActionDeleted, id, uuid.Nil)
	return nil
}

func mapPaymentError(err error) error {
	switch {
	case errors.Is(err, repository.ErrPaymentNotFound):
		return ErrPaymentNotFound
	case errors.Is(err, repository.ErrUserReference):
		return ErrUserReference
	}
	return err
}
