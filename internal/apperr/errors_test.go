package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestInsufficientStockErrorMatching(t *testing.T) {
	var err error = &InsufficientStockError{
		ProductID:   uuid.New(),
		ProductName: "Widget",
		Requested:   3,
		Available:   1,
	}

	assert.True(t, errors.Is(err, ErrInsufficientStock))

	var stockErr *InsufficientStockError
	assert.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)
	assert.Contains(t, err.Error(), "Widget")

	// Wrapping must survive the chain.
	wrapped := fmt.Errorf("approve order: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInsufficientStock))
	assert.True(t, errors.As(wrapped, &stockErr))
}

func TestValidationFamily(t *testing.T) {
	assert.True(t, IsValidation(ErrEmptyCart))
	assert.True(t, IsValidation(ErrInvalidQuantity))
	assert.True(t, IsValidation(ErrReasonRequired))
	assert.True(t, IsValidation(ErrProductUnavailable))
	assert.True(t, IsValidation(Validationf("field %q missing", "items")))

	assert.False(t, IsValidation(ErrAlreadyFinalized))
	assert.False(t, IsValidation(ErrInsufficientStock))
	assert.False(t, IsValidation(ErrConcurrencyConflict))
}
