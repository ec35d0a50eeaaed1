package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"quickbites/internal/logger"
)

// Publisher publishes order lifecycle events to RabbitMQ
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishOrderEvent publishes an event to the orders topic exchange
func (p *Publisher) PublishOrderEvent(ctx context.Context, routingKey string, event interface{}) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		OrdersExchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		publishing,
	)

	if err != nil {
		p.logger.Error("event_publish_failed",
			fmt.Sprintf("Failed to publish event with routing key %s", routingKey),
			"", err, map[string]interface{}{
				"exchange":    OrdersExchange,
				"routing_key": routingKey,
			})
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event_published",
		fmt.Sprintf("Published event with routing key %s", routingKey),
		"", map[string]interface{}{
			"exchange":     OrdersExchange,
			"routing_key":  routingKey,
			"message_size": len(body),
		})

	return nil
}

// Close closes the publisher
func (p *Publisher) Close() error {
	return p.conn.Close()
}
