// Package repository defines the persistence contract for orders.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/testworkflow/ordersvc/internal/domain"
)

// OrderRepository is the durable store contract. The store is the single
// point of truth for orders; concurrent writes to the same id resolve
// last-write-wins at the store's granularity.
type OrderRepository interface {
	// Save persists the order and returns the stored state. On first save the
	// store assigns the id and both timestamps.
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)

	// FindByID returns (nil, nil) when the id matches no order.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// FindAllOrderByCreatedAtDesc returns one page of orders, most recently
	// created first, plus the total number of stored orders. Callers pass a
	// validated page >= 0 and size > 0.
	FindAllOrderByCreatedAtDesc(ctx context.Context, page, size int) ([]*domain.Order, int64, error)
}
