package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/rabbitmq/amqp091-go"
)

const RoutingKeyOrderCreated = "order.created"

// Publisher publishes order events to RabbitMQ
type Publisher struct {
	conn   *Connection
	logger *gecho.Logger
}

func NewPublisher(conn *Connection, logger *gecho.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// PublishOrderCreated publishes a persistent order.created message
func (p *Publisher) PublishOrderCreated(ctx context.Context, event *OrderCreatedEvent) error {
	return p.publish(ctx, RoutingKeyOrderCreated, event)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	p.conn.mu.Lock()
	defer p.conn.mu.Unlock()

	if p.conn.isClosed() {
		p.conn.close()
		if err := p.conn.connect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.channel.PublishWithContext(
		ctx,
		p.conn.exchange, // exchange
		routingKey,      // routing key
		false,           // mandatory
		false,           // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", p.conn.exchange, err)
	}

	p.logger.Debug("Published message",
		gecho.Field("exchange", p.conn.exchange),
		gecho.Field("routing_key", routingKey),
		gecho.Field("message_size", len(body)),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, *OrderCreatedEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
