// Package service coordinates order persistence and event publication.
//
// Persistence is the unit of durability. Event publication happens after a
// successful save, outside that boundary: it is dispatched asynchronously and
// its outcome never changes what the caller gets back. A persistence failure
// means no event; a publication failure means a log line, nothing more.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/testworkflow/ordersvc/internal/domain"
	"github.com/testworkflow/ordersvc/internal/repository"
)

// EventPublisher dispatches order events to downstream consumers. A non-nil
// error only means the event could not be handed off; implementations observe
// transport outcomes themselves and log them.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
	PublishOrderStatusUpdated(ctx context.Context, order *domain.Order) error
}

// OrderCache is an optional read-through cache for single-order lookups.
type OrderCache interface {
	Get(ctx context.Context, id uuid.UUID) *domain.Order
	Set(ctx context.Context, order *domain.Order)
}

// ItemInput describes one requested line item.
type ItemInput struct {
	ProductID   string
	ProductName string
	Quantity    int32
	Price       decimal.Decimal
}

// OrderService owns the order use cases.
type OrderService struct {
	repo      repository.OrderRepository
	publisher EventPublisher
	cache     OrderCache // may be nil
	logger    *slog.Logger
}

func NewOrderService(repo repository.OrderRepository, publisher EventPublisher, cache OrderCache, logger *slog.Logger) *OrderService {
	return &OrderService{repo: repo, publisher: publisher, cache: cache, logger: logger}
}

// CreateOrder builds, validates and persists a new pending order, then
// dispatches an ORDER_CREATED event from the persisted state. Any invalid
// item rejects the whole call; nothing partial is ever persisted.
func (s *OrderService) CreateOrder(ctx context.Context, customerName string, items []ItemInput) (*domain.Order, error) {
	order, err := domain.NewOrder(customerName)
	if err != nil {
		return nil, err
	}
	for _, in := range items {
		item := domain.OrderItem{
			ProductID:   in.ProductID,
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
			Price:       in.Price,
		}
		if err := order.AddItem(item); err != nil {
			return nil, err
		}
	}
	order.RecalculateTotal()

	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "create order", Err: err}
	}
	if s.cache != nil {
		s.cache.Set(ctx, saved)
	}

	if err := s.publisher.PublishOrderCreated(ctx, saved); err != nil {
		s.logger.Error("failed to dispatch order created event", "orderId", saved.ID, "error", err)
	}

	s.logger.Info("order created", "orderId", saved.ID, "customer", saved.CustomerName,
		"total", saved.TotalAmount, "items", len(saved.Items))
	return saved, nil
}

// GetOrder returns (nil, nil) when the id matches no order.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if s.cache != nil {
		if order := s.cache.Get(ctx, id); order != nil {
			return order, nil
		}
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get order", Err: err}
	}
	if order != nil && s.cache != nil {
		s.cache.Set(ctx, order)
	}
	return order, nil
}

// ListOrders returns one page of orders, most recently created first, plus
// the total count. The boundary validates page and size before calling.
func (s *OrderService) ListOrders(ctx context.Context, page, size int) ([]*domain.Order, int64, error) {
	orders, total, err := s.repo.FindAllOrderByCreatedAtDesc(ctx, page, size)
	if err != nil {
		return nil, 0, &domain.PersistenceError{Op: "list orders", Err: err}
	}
	return orders, total, nil
}

// UpdateOrderStatus assigns the new status and persists it, then dispatches
// an ORDER_STATUS_UPDATED event from the persisted state. An unknown id
// yields (nil, nil).
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load order for status update", Err: err}
	}
	if order == nil {
		return nil, nil
	}

	order.SetStatus(status)
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "update order status", Err: err}
	}
	if s.cache != nil {
		s.cache.Set(ctx, saved)
	}

	if err := s.publisher.PublishOrderStatusUpdated(ctx, saved); err != nil {
		s.logger.Error("failed to dispatch order status event", "orderId", saved.ID, "error", err)
	}

	s.logger.Info("order status updated", "orderId", saved.ID, "status", saved.Status)
	return saved, nil
}
