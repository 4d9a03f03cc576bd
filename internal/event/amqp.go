package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/osse101/luckydraw/internal/logger"
)

// amqpChannel is the subset of *amqp.Channel the bus publishes through
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPBus forwards events to a durable RabbitMQ queue after dispatching them
// to local subscribers.
type AMQPBus struct {
	local *MemoryBus
	conn  *amqp.Connection
	ch    amqpChannel
	queue string
	mu    sync.Mutex
}

// DialAMQPBus connects to the broker and declares the destination queue
func DialAMQPBus(url, queue string) (*AMQPBus, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgAMQPDial, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgAMQPChannel, err)
	}

	bus, err := newAMQPBus(ch, queue)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	bus.conn = conn
	return bus, nil
}

func newAMQPBus(ch amqpChannel, queue string) (*AMQPBus, error) {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("%s %q: %w", ErrMsgAMQPQueueDeclare, queue, err)
	}
	return &AMQPBus{
		local: NewMemoryBus(),
		ch:    ch,
		queue: queue,
	}, nil
}

// Publish dispatches locally, then sends a persistent JSON message to the queue
func (b *AMQPBus) Publish(ctx context.Context, event Event) error {
	if err := b.local.Publish(ctx, event); err != nil {
		logger.FromContext(ctx).Warn(LogMsgLocalHandlersFailed, "event_type", event.Type, "error", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgAMQPMarshal, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(event.Type),
		Body:         body,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ch.PublishWithContext(ctx, "", b.queue, false, false, msg); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgAMQPPublish, err)
	}
	return nil
}

// Subscribe registers an in-process handler
func (b *AMQPBus) Subscribe(eventType Type, handler Handler) {
	b.local.Subscribe(eventType, handler)
}

// Close releases the channel and connection
func (b *AMQPBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := b.ch.Close()
	if b.conn != nil {
		if cerr := b.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
