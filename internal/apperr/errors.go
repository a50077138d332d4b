package apperr

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors form the taxonomy the handlers map onto HTTP codes.
var (
	// Validation family: rejected before any transaction opens.
	ErrValidation         = errors.New("validation failed")
	ErrEmptyCart          = fmt.Errorf("%w: no items in order", ErrValidation)
	ErrInvalidQuantity    = fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	ErrReasonRequired     = fmt.Errorf("%w: a rejection reason is required", ErrValidation)
	ErrProductUnavailable = fmt.Errorf("%w: product is not available for sale", ErrValidation)

	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")

	// Idempotency guard: the approval machine already ran for this order.
	ErrAlreadyFinalized = errors.New("order already finalized")

	ErrInvalidTransition = errors.New("illegal status transition")

	// Transient: the compare-and-set on the status row lost a race.
	// Safe to retry the whole operation.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")

	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError names the offending product so staff can restock
// and retry the approval. It matches errors.Is(err, ErrInsufficientStock).
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Validationf wraps a formatted message into the validation family.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// IsValidation reports whether the error belongs to the validation family.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
