// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/castleviz/castleviz/internal/model"
)

// ErrMissingField is returned when a required request field is absent.
var ErrMissingField = errors.New("missing required field")

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// PagesResponse is the body of GET /expenses/pages.
type PagesResponse struct {
	TotalPages int `json:"total_pages"`
}

// ============================================================================
// Users
// ============================================================================

// UserRequest is the body of POST /users/ and PUT /users/{id}.
type UserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Validate checks that every field is present.
func (r *UserRequest) Validate() error {
	return requireFields(map[string]bool{
		"name":     r.Name != nil,
		"email":    r.Email != nil,
		"password": r.Password != nil,
	}, "name", "email", "password")
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Password: u.Password}
}

// ToUserResponses converts a slice of User models.
func ToUserResponses(users []*model.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = *ToUserResponse(u)
	}
	return out
}

// ============================================================================
// Payments
// ============================================================================

// PaymentRequest is the body of POST /payments/ and PUT /payments/{id}.
type PaymentRequest struct {
	Category *string `json:"category"`
	Vendor   *string `json:"vendor"`
	Amount   *int64  `json:"amount"`
	UserID   *string `json:"user_id"`
}

// Validate checks that every field is present.
func (r *PaymentRequest) Validate() error {
	return requireFields(map[string]bool{
		"category": r.Category != nil,
		"vendor":   r.Vendor != nil,
		"amount":   r.Amount != nil,
		"user_id":  r.UserID != nil,
	}, "category", "vendor", "amount", "user_id")
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Vendor    string    `json:"vendor"`
	Amount    int64     `json:"amount"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToPaymentResponse converts a Payment model to PaymentResponse DTO.
func ToPaymentResponse(p *model.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:        p.ID,
		Category:  p.Category,
		Vendor:    p.Vendor,
		Amount:    p.Amount,
		UserID:    p.UserID,
		CreatedAt: p.CreatedAt,
	}
}

// ToPaymentResponses converts a slice of Payment models.
func ToPaymentResponses(payments []*model.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = *ToPaymentResponse(p)
	}
	return out
}

// ============================================================================
// Bills
// ============================================================================

// BillRequest is the body of POST /bills/ and PUT /bills/{id}.
type BillRequest struct {
	Category *string `json:"category"`
	Vendor   *string `json:"vendor"`
	Amount   *int64  `json:"amount"`
	Status   *string `json:"status"`
	UserID   *string `json:"user_id"`
}

// Validate checks that every field is present.
func (r *BillRequest) Validate() error {
	return requireFields(map[string]bool{
		"category": r.Category != nil,
		"vendor":   r.Vendor != nil,
		"amount":   r.Amount != nil,
		"status":   r.Status != nil,
		"user_id":  r.UserID != nil,
	}, "category", "vendor", "amount", "status", "user_id")
}

// BillResponse represents a bill in API responses.
type BillResponse struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Vendor    string    `json:"vendor"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ToBillResponse converts a Bill model to BillResponse DTO.
func ToBillResponse(b *model.Bill) *BillResponse {
	return &BillResponse{
		ID:        b.ID,
		Category:  b.Category,
		Vendor:    b.Vendor,
		Amount:    b.Amount,
		Status:    b.Status,
		UserID:    b.UserID,
		CreatedAt: b.CreatedAt,
	}
}

// ToBillResponses converts a slice of Bill models.
func ToBillResponses(bills []*model.Bill) []BillResponse {
	out := make([]BillResponse, len(bills))
	for i, b := range bills {
		out[i] = *ToBillResponse(b)
	}
	return out
}

// requireFields reports the first absent field, checked in order.
func requireFields(present map[string]bool, order ...string) error {
	for _, name := range order {
		if !present[name] {
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}
	return nil
}
