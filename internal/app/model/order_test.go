package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidOrderStatus(t *testing.T) {
	valid := []OrderStatus{
		OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	}
	for _, s := range valid {
		assert.True(t, IsValidOrderStatus(s), string(s))
	}

	assert.False(t, IsValidOrderStatus("refunded"))
	assert.False(t, IsValidOrderStatus(""))
	assert.False(t, IsValidOrderStatus("PENDING"))
}

func TestIsValidPaymentMethod(t *testing.T) {
	valid := []PaymentMethod{
		PaymentMethodCard, PaymentMethodBankTransfer,
		PaymentMethodKakaoPay, PaymentMethodNaverPay, PaymentMethodTossPay,
	}
	for _, m := range valid {
		assert.True(t, IsValidPaymentMethod(m), string(m))
	}

	assert.False(t, IsValidPaymentMethod("bitcoin"))
	assert.False(t, IsValidPaymentMethod(""))
}

func TestOrderStatus_IsCancellable(t *testing.T) {
	tests := []struct {
		status      OrderStatus
		cancellable bool
	}{
		{OrderStatusPending, true},
		{OrderStatusPaid, true},
		{OrderStatusProcessing, true},
		{OrderStatusShipped, false},
		{OrderStatusDelivered, false},
		{OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.cancellable, tt.status.IsCancellable())
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

func TestOrder_RecalculateAmounts(t *testing.T) {
	order := &Order{
		Lines: []OrderLine{
			{ProductID: 1, Quantity: 2, UnitPrice: 45000},
			{ProductID: 2, Quantity: 1, UnitPrice: 128000},
		},
	}

	order.RecalculateAmounts()

	assert.Equal(t, int64(2*45000+128000), order.Subtotal)
	assert.Equal(t, order.Subtotal, order.TotalAmount)
}
