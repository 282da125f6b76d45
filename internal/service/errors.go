package service

import (
	"errors"
	"fmt"
)

// Service errors.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrBillNotFound      = errors.New("bill not found")
	ErrInvalidPagination = errors.New("page must be >= 1 and items_per_page must be > 0")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUserReference     = errors.New("user_id does not reference an existing user")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
