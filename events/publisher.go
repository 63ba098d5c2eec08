// Package events publishes receipts of on-chain writes to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ruteri/eas-attestation-api/interfaces"
)

const ExchangeTopic = "topic"

// Routing keys per receipt kind.
const (
	RoutingKeySchemaRegistered   = "schema.registered"
	RoutingKeyAttestationCreated = "attestation.created"
	RoutingKeyAttestationRevoked = "attestation.revoked"
)

var ErrPublisherClosed = errors.New("publisher closed")

// RoutingKey maps a receipt kind to its routing key.
func RoutingKey(kind interfaces.ContentType) (string, error) {
	switch kind {
	case interfaces.SchemaReceiptType:
		return RoutingKeySchemaRegistered, nil
	case interfaces.AttestationReceiptType:
		return RoutingKeyAttestationCreated, nil
	case interfaces.RevocationReceiptType:
		return RoutingKeyAttestationRevoked, nil
	}
	return "", fmt.Errorf("no routing key for receipt kind %v", kind)
}

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes receipts as persistent JSON messages on a durable
// topic exchange.
type AMQPPublisher struct {
	log      *slog.Logger
	exchange string

	mu     sync.Mutex
	ch     channel
	conn   io.Closer
	closed bool
}

var _ interfaces.ReceiptPublisher = (*AMQPPublisher)(nil)

// Dial connects to the broker, retrying with exponential backoff, and
// declares the exchange.
func Dial(ctx context.Context, log *slog.Logger, url, exchange string, maxRetries int) (*AMQPPublisher, error) {
	var conn *amqp.Connection
	var err error
	wait := time.Second

	for i := 0; ; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		if i+1 >= maxRetries {
			return nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
		}

		log.Warn("RabbitMQ connection failed, retrying", "attempt", i+1, "wait", wait, "err", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not open RabbitMQ channel: %w", err)
	}

	p, err := newPublisher(log, ch, conn, exchange)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}

func newPublisher(log *slog.Logger, ch channel, conn io.Closer, exchange string) (*AMQPPublisher, error) {
	err := ch.ExchangeDeclare(
		exchange,      // name
		ExchangeTopic, // type
		true,          // durable
		false,         // auto-deleted
		false,         // internal
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("could not declare exchange %s: %w", exchange, err)
	}

	return &AMQPPublisher{log: log, exchange: exchange, ch: ch, conn: conn}, nil
}

// Publish sends the receipt to the exchange under its kind's routing key.
func (p *AMQPPublisher) Publish(ctx context.Context, receipt *interfaces.Receipt) error {
	key, err := RoutingKey(receipt.Kind)
	if err != nil {
		return err
	}
	body, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("could not marshal receipt: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPublisherClosed
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    receipt.UID.String(),
		Type:         key,
		Timestamp:    receipt.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("could not publish %s: %w", key, err)
	}

	p.log.Debug("published receipt", "exchange", p.exchange, "routingKey", key, "uid", receipt.UID)
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	err := p.ch.Close()
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}

// NopPublisher discards receipts.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *interfaces.Receipt) error { return nil }

func (NopPublisher) Close() error { return nil }
