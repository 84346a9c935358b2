// Package memory implements the order repository in process memory. It backs
// tests and broker-less local runs; nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/testworkflow/ordersvc/internal/domain"
)

type record struct {
	order domain.Order
	seq   uint64
}

// OrderRepository stores orders in a mutex-guarded map.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*record
	seq    uint64
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[uuid.UUID]*record)}
}

func (r *OrderRepository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneOrder(order)
	now := time.Now().UTC()
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
		stored.CreatedAt = now
		stored.UpdatedAt = now
	} else if stored.UpdatedAt.Before(stored.CreatedAt) {
		stored.UpdatedAt = now
	}

	r.seq++
	r.orders[stored.ID] = &record{order: *stored, seq: r.seq}
	return cloneOrder(stored), nil
}

func (r *OrderRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(&rec.order), nil
}

func (r *OrderRepository) FindAllOrderByCreatedAtDesc(_ context.Context, page, size int) ([]*domain.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*record, 0, len(r.orders))
	for _, rec := range r.orders {
		records = append(records, rec)
	}
	// Insertion sequence breaks ties between orders created within one clock tick.
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.order.CreatedAt.Equal(b.order.CreatedAt) {
			return a.order.CreatedAt.After(b.order.CreatedAt)
		}
		return a.seq > b.seq
	})

	total := int64(len(records))
	start := page * size
	if start >= len(records) {
		return []*domain.Order{}, total, nil
	}
	end := start + size
	if end > len(records) {
		end = len(records)
	}

	out := make([]*domain.Order, 0, end-start)
	for _, rec := range records[start:end] {
		out = append(out, cloneOrder(&rec.order))
	}
	return out, total, nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = make([]domain.OrderItem, len(order.Items))
	copy(clone.Items, order.Items)
	return &clone
}
