package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to processing", OrderPending, OrderProcessing, true},
		{"pending to cancelled", OrderPending, OrderCancelled, true},
		{"pending to completed skips review", OrderPending, OrderCompleted, false},
		{"processing to completed", OrderProcessing, OrderCompleted, true},
		{"processing to cancelled", OrderProcessing, OrderCancelled, true},
		{"processing back to pending", OrderProcessing, OrderPending, false},
		{"completed to cancelled", OrderCompleted, OrderCancelled, true},
		{"completed back to processing", OrderCompleted, OrderProcessing, false},
		{"cancelled is terminal", OrderCancelled, OrderPending, false},
		{"cancelled to processing", OrderCancelled, OrderProcessing, false},
		{"self transition", OrderProcessing, OrderProcessing, false},
		{"unknown status", OrderStatus("shipped"), OrderCancelled, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderProcessing, OrderCompleted, OrderCancelled} {
		assert.True(t, ValidOrderStatus(s), string(s))
	}
	assert.False(t, ValidOrderStatus("shipped"))
	assert.False(t, ValidOrderStatus(""))
}

func TestApprovalFinalized(t *testing.T) {
	assert.False(t, ApprovalPending.Finalized())
	assert.True(t, ApprovalApproved.Finalized())
	assert.True(t, ApprovalRejected.Finalized())
}
