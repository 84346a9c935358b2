package noop

import (
	"context"

	"github.com/testworkflow/ordersvc/internal/domain"
)

// Publisher is a no-op EventPublisher used when Kafka is not configured.
type Publisher struct{}

func (Publisher) PublishOrderCreated(_ context.Context, _ *domain.Order) error { return nil }

func (Publisher) PublishOrderStatusUpdated(_ context.Context, _ *domain.Order) error { return nil }
