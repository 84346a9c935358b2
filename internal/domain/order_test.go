package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	order, err := NewOrder("Alice")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, order.Status)
	assert.Empty(t, order.Items)
	assert.True(t, order.TotalAmount.IsZero())
	assert.Equal(t, uuid.Nil, order.ID, "id is assigned by the store, not the aggregate")
}

func TestNewOrderRejectsEmptyCustomerName(t *testing.T) {
	for _, name := range []string{"", "   "} {
		_, err := NewOrder(name)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	}
}

func TestAddItemValidation(t *testing.T) {
	tests := []struct {
		name string
		item OrderItem
	}{
		{
			name: "zero quantity",
			item: OrderItem{ProductID: "p1", ProductName: "Widget", Quantity: 0, Price: decimal.NewFromInt(10)},
		},
		{
			name: "negative quantity",
			item: OrderItem{ProductID: "p1", ProductName: "Widget", Quantity: -3, Price: decimal.NewFromInt(10)},
		},
		{
			name: "negative price",
			item: OrderItem{ProductID: "p1", ProductName: "Widget", Quantity: 1, Price: decimal.NewFromInt(-1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := NewOrder("Alice")
			require.NoError(t, err)

			err = order.AddItem(tt.item)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Empty(t, order.Items, "invalid item must not be appended")
		})
	}
}

func TestRecalculateTotal(t *testing.T) {
	order, err := NewOrder("Alice")
	require.NoError(t, err)

	require.NoError(t, order.AddItem(OrderItem{
		ProductID: "p1", ProductName: "Widget", Quantity: 2, Price: decimal.RequireFromString("25.00"),
	}))
	require.NoError(t, order.AddItem(OrderItem{
		ProductID: "p2", ProductName: "Gadget", Quantity: 1, Price: decimal.RequireFromString("10.50"),
	}))

	assert.True(t, order.TotalAmount.IsZero(), "AddItem must not touch the total")

	order.RecalculateTotal()
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("60.50")),
		"got total %s", order.TotalAmount)

	order.RecalculateTotal()
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("60.50")),
		"recalculating without mutation must be idempotent")
}

func TestRecalculateTotalOnEmptyOrder(t *testing.T) {
	order, err := NewOrder("Alice")
	require.NoError(t, err)

	order.RecalculateTotal()
	assert.True(t, order.TotalAmount.IsZero())
}

func TestSetStatus(t *testing.T) {
	order, err := NewOrder("Alice")
	require.NoError(t, err)

	order.SetStatus(StatusShipped)

	assert.Equal(t, StatusShipped, order.Status)
	assert.False(t, order.UpdatedAt.IsZero())
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	_, err = ParseStatus("REOPENED")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}
