// Package events publishes order lifecycle messages to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

const OrderPlacedKey = "order.placed"

// OrderPlaced is the payload sent after an order commits.
type OrderPlaced struct {
	OrderID   int64              `json:"orderId"`
	MemberID  int64              `json:"memberId"`
	OrderDate time.Time          `json:"orderDate"`
	Items     []domain.OrderItem `json:"items"`
}

// Message is the envelope every event is wrapped in.
type Message struct {
	Pattern string `json:"pattern"`
	Data    any    `json:"data"`
}

func NewOrderPlaced(o *domain.Order) OrderPlaced {
	items := make([]domain.OrderItem, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, domain.OrderItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return OrderPlaced{OrderID: o.ID, MemberID: o.MemberID, OrderDate: o.OrderDate, Items: items}
}

func encode(pattern string, data any) ([]byte, error) {
	return json.Marshal(Message{Pattern: pattern, Data: data})
}

type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends JSON messages to a durable topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	ch       channel
	exchange string
	logger   *zap.Logger
}

func NewPublisher(url, exchange string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	pub := newPublisher(ch, exchange, logger)
	pub.conn = conn
	return pub, nil
}

func newPublisher(ch channel, exchange string, logger *zap.Logger) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, logger: logging.OrNop(logger)}
}

// Publish sends data under the routing key pattern.
// amqp channels are not safe for concurrent publishing, so calls are serialized.
func (p *Publisher) Publish(ctx context.Context, pattern string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := encode(pattern, data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", pattern, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(p.exchange, pattern, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", pattern, err)
	}
	p.logger.Debug("event published", zap.String("exchange", p.exchange), zap.String("pattern", pattern))
	return nil
}

func (p *Publisher) Close() {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
