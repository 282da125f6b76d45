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

// BillInput holds the client-supplied fields of a bill.
type BillInput struct {
	Category string
	Vendor   string
	Amount   int64
	Status   string
	UserID   uuid.UUID
}

func (in BillInput) bill(id uuid.UUID) *model.Bill {
	return &model.Bill{
		ID:       id,
		Category: in.Category,
		Vendor:   in.Vendor,
		Amount:   in.Amount,
		Status:   in.Status,
		UserID:   in.UserID,
	}
}

// BillService handles bill business logic.
type BillService struct {
	store    BillStore
	notifier mutationNotifier
}

// NewBillService creates a new BillService.
func NewBillService(store BillStore, recorder metrics.Recorder, publisher events.Publisher) *BillService {
	return &BillService{
		store:    store,
		notifier: newMutationNotifier("bill", recorder, publisher),
	}
}

// Create stores a new bill. The status is kept verbatim.
func (s *BillService) Create(ctx context.Context, in BillInput) (*model.Bill, error) {
	if in.UserID == uuid.Nil {
		return nil, invalidInput("user_id is required")
	}

	b := in.bill(uuid.New())
	if err := s.store.CreateBill(ctx, b); err != nil {
		return nil, mapBillError(err)
	}

	s.notifier.notify(events.ActionCreated, b.ID, b.UserID)
	return b, nil
}

// Get retrieves a bill by ID.
func (s *BillService) Get(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	b, err := s.store.GetBillByID(ctx, id)
	if err != nil {
		return nil, mapBillError(err)
	}
	return b, nil
}

// List returns a page of bills, newest first.
func (s *BillService) List(ctx context.Context, skip, limit int) ([]*model.Bill, error) {
	if err := checkWindow(skip, limit); err != nil {
		return nil, err
	}
	return s.store.ListBills(ctx, skip, limit)
}

// All returns every bill, newest first.
func (s *BillService) All(ctx context.Context) ([]*model.Bill, error) {
	return s.store.ListAllBills(ctx)
}

// Update replaces every client field of the bill. created_at is kept.
func (s *BillService) Update(ctx context.Context, id uuid.UUID, in BillInput) (*model.Bill, error) {
	if in.UserID == uuid.Nil {
		return nil, invalidInput("user_id is required")
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	b := in.bill(id)
	if err := s.store.UpdateBill(ctx, b); err != nil {
		return nil, mapBillError(err)
	}

	s.notifier.notify(events.ActionUpdated, b.ID, b.UserID)
	return b, nil
}

// Delete permanently removes the bill.
func (s *BillService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteBill(ctx, id); err != nil {
		return mapBillError(err)
	}

	s.notifier.notify(events.ActionDeleted, id, uuid.Nil)
	return nil
}

func mapBillError(err error) error {
	switch {
	case errors.Is(err, repository.ErrBillNotFound):
		return ErrBillNotFound
	case errors.Is(err, repository.ErrUserReference):
		return ErrUserReference
	}
	return err
}
