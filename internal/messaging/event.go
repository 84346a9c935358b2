// Package messaging defines event types for order domain events.
package messaging

import (
	"encoding/json"

	"github.com/testworkflow/ordersvc/internal/domain"
)

// Event type constants for order domain events. The values are part of the
// contract with downstream consumers (inventory reserves stock on
// ORDER_CREATED and commits it when a CONFIRMED status update arrives).
const (
	EventOrderCreated       = "ORDER_CREATED"
	EventOrderStatusUpdated = "ORDER_STATUS_UPDATED"
)

// OrderEvent is the Kafka message envelope for order domain events. It is a
// point-in-time snapshot of an order, built fresh for every publish attempt
// and never persisted.
type OrderEvent struct {
	EventType    string `json:"eventType"`
	OrderID      string `json:"orderId"`
	CustomerName string `json:"customerName"`
	Status       string `json:"status"`
	// json.Number keeps the decimal total exact on the wire while still
	// serializing as a JSON number for consumers.
	TotalAmount json.Number `json:"totalAmount"`
	ItemCount   int         `json:"itemCount"`
	Items       []EventItem `json:"items"`
}

// EventItem carries the subset of a line item that inventory processing needs.
type EventItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int32  `json:"quantity"`
}

// NewOrderEvent snapshots an order into an event envelope of the given type.
func NewOrderEvent(order *domain.Order, eventType string) OrderEvent {
	items := make([]EventItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, EventItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		})
	}
	return OrderEvent{
		EventType:    eventType,
		OrderID:      order.ID.String(),
		CustomerName: order.CustomerName,
		Status:       order.Status.String(),
		TotalAmount:  json.Number(order.TotalAmount.String()),
		ItemCount:    len(order.Items),
		Items:        items,
	}
}
