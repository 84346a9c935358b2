// Package domain contains the order aggregate and its business rules.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is a line item owned by exactly one order. It has no identity of
// its own beyond its position in the item list.
type OrderItem struct {
	ProductID   string
	ProductName string
	Quantity    int32
	Price       decimal.Decimal
}

// Subtotal returns quantity × unit price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt32(i.Quantity))
}

// Order is the aggregate root. The order and its items form one consistency
// unit; TotalAmount is derived and only changes when RecalculateTotal runs.
type Order struct {
	ID           uuid.UUID
	CustomerName string
	Items        []OrderItem
	TotalAmount  decimal.Decimal
	Status       OrderStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewOrder builds a pending order with no items and a zero total. The id and
// timestamps stay zero until the store assigns them on first save.
func NewOrder(customerName string) (*Order, error) {
	if strings.TrimSpace(customerName) == "" {
		return nil, &ValidationError{Msg: "customer name must not be empty"}
	}
	return &Order{
		CustomerName: customerName,
		Items:        []OrderItem{},
		TotalAmount:  decimal.Zero,
		Status:       StatusPending,
	}, nil
}

// AddItem appends a validated line item. TotalAmount is untouched until
// RecalculateTotal is called.
func (o *Order) AddItem(item OrderItem) error {
	if item.Quantity <= 0 {
		return &ValidationError{Msg: fmt.Sprintf("item %s: quantity must be positive, got %d", item.ProductID, item.Quantity)}
	}
	if item.Price.IsNegative() {
		return &ValidationError{Msg: fmt.Sprintf("item %s: price must not be negative, got %s", item.ProductID, item.Price)}
	}
	o.Items = append(o.Items, item)
	return nil
}

// RecalculateTotal sets TotalAmount to the sum of item subtotals. Idempotent;
// no other field is touched.
func (o *Order) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	o.TotalAmount = total
}

// SetStatus assigns the status unconditionally and refreshes UpdatedAt.
// Event emission for the change is the service layer's job, not the aggregate's.
func (o *Order) SetStatus(status OrderStatus) {
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
}
