// Package kafka publishes order events to a Kafka topic.
//
// Publication is best-effort by contract: a publish call enqueues the event
// and returns immediately, a single drain goroutine hands messages to the
// broker, and delivery outcomes are logged, never propagated back to the
// operation that produced the event.
package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/testworkflow/ordersvc/internal/domain"
	"github.com/testworkflow/ordersvc/internal/messaging"
)

const (
	queueSize    = 256
	writeTimeout = 10 * time.Second
)

// messageWriter is the slice of kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher sends order events keyed by order id. Messages for one order hash
// to one partition, so the broker preserves their emission order relative to
// each other.
type Publisher struct {
	writer messageWriter
	queue  chan kafka.Message
	wg     sync.WaitGroup
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewPublisher connects a publisher to the given brokers and topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	return newPublisher(writer, logger)
}

func newPublisher(writer messageWriter, logger *slog.Logger) *Publisher {
	p := &Publisher{
		writer: writer,
		queue:  make(chan kafka.Message, queueSize),
		logger: logger,
	}
	p.wg.Add(1)
	go p.drain()
	return p
}

func (p *Publisher) PublishOrderCreated(_ context.Context, order *domain.Order) error {
	p.enqueue(messaging.NewOrderEvent(order, messaging.EventOrderCreated))
	return nil
}

func (p *Publisher) PublishOrderStatusUpdated(_ context.Context, order *domain.Order) error {
	p.enqueue(messaging.NewOrderEvent(order, messaging.EventOrderStatusUpdated))
	return nil
}

// enqueue snapshots the event onto the queue without blocking. A full queue
// drops the event; at-most-best-effort delivery allows that, losing the
// non-blocking write path does not.
func (p *Publisher) enqueue(event messaging.OrderEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to encode order event",
			"eventType", event.EventType, "orderId", event.OrderID, "error", err)
		return
	}
	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.logger.Warn("publisher closed, dropping order event",
			"eventType", event.EventType, "orderId", event.OrderID)
		return
	}
	select {
	case p.queue <- msg:
	default:
		p.logger.Warn("event queue full, dropping order event",
			"eventType", event.EventType, "orderId", event.OrderID)
	}
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for msg := range p.queue {
		// Detached from the request context: a caller disconnect must not
		// retract an already-dispatched publish.
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := p.writer.WriteMessages(ctx, msg)
		cancel()
		if err != nil {
			p.logger.Error("failed to publish order event",
				"key", string(msg.Key), "error", err)
			continue
		}
		p.logger.Info("published order event", "key", string(msg.Key))
	}
}

// Close flushes queued events and releases the writer. A publish racing or
// following Close is dropped like any other best-effort loss, never a panic.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	p.wg.Wait()
	if closer, ok := p.writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
