// Package publisher delivers feedback events to downstream consumers.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/okian/drape/internal/domain/model"
	"github.com/okian/drape/pkg/logger"
)

// DefaultExchange is the topic exchange feedback events are published to.
const DefaultExchange = "drape.feedback"

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("publisher closed")

// Publisher delivers a feedback event.
type Publisher interface {
	Publish(ctx context.Context, e model.FeedbackEvent) error
	Close() error
}

// LogPublisher writes events to the log. It is used when no broker is
// configured.
type LogPublisher struct {
	logger logger.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(l logger.Logger) *LogPublisher {
	if l == nil {
		l = logger.Get().Named("publisher")
	}
	return &LogPublisher{logger: l}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, e model.FeedbackEvent) error { //nolint:gocritic // hugeParam: value semantics
	p.logger.Info(ctx, "feedback event",
		logger.String("event_id", e.EventID),
		logger.String("session_id", e.SessionID),
		logger.String("outfit_id", e.OutfitID),
		logger.String("routing_key", e.RoutingKey()),
		logger.Strings("colors", e.Colors),
	)
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error { return nil }

// AMQPPublisher publishes JSON events to a durable topic exchange.
type AMQPPublisher struct {
	exchange string

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

// NewAMQPPublisher dials url and declares the exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{exchange: exchange, conn: conn, ch: ch}, nil
}

// Publish sends e routed by its verdict. The channel is shared, so
// publishes are serialised.
func (p *AMQPPublisher) Publish(ctx context.Context, e model.FeedbackEvent) error { //nolint:gocritic // hugeParam: value semantics
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := Encode(e)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	return p.ch.Publish(
		p.exchange,
		e.RoutingKey(),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    e.EventID,
			Timestamp:    e.TS,
			Body:         body,
		},
	)
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return errors.Join(p.ch.Close(), p.conn.Close())
}

// Encode renders the wire form of an event. A zero timestamp is replaced
// with the current time.
func Encode(e model.FeedbackEvent) ([]byte, error) { //nolint:gocritic // hugeParam: value semantics
	if e.TS.IsZero() {
		e.TS = time.Now().UTC()
	}
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode feedback event: %w", err)
	}
	return body, nil
}
