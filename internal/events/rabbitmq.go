package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"campuseats/internal/domain"
)

// Routing keys on the transactions exchange.
const (
	RoutingCreated = "transaction.created"
	RoutingStatus  = "transaction.status"
)

// Envelope is the wire shape of transaction events.
type Envelope struct {
	Event       string             `json:"event"`
	Transaction domain.Transaction `json:"transaction"`
}

// Broker wraps the AMQP connection and channel for transaction events.
type Broker struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	logger   *log.Logger
}

// Connect dials the broker and opens a channel.
func Connect(url, exchange, queue string, logger *log.Logger) (*Broker, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return &Broker{conn: conn, channel: ch, exchange: exchange, queue: queue, logger: logger}, nil
}

// SetupQueues declares the transactions exchange, the consumer queue, and
// binds the queue to both routing keys.
func (b *Broker) SetupQueues() error {
	if err := b.channel.ExchangeDeclare(
		b.exchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	if _, err := b.channel.QueueDeclare(
		b.queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	for _, key := range []string{RoutingCreated, RoutingStatus} {
		if err := b.channel.QueueBind(b.queue, key, b.exchange, false, nil); err != nil {
			return err
		}
	}
	return nil
}

// TransactionCreated publishes a materialized transaction.
func (b *Broker) TransactionCreated(ctx context.Context, tx domain.Transaction) error {
	return b.publish(ctx, RoutingCreated, Envelope{Event: RoutingCreated, Transaction: tx})
}

// StatusChanged publishes a status update.
func (b *Broker) StatusChanged(ctx context.Context, tx domain.Transaction) error {
	return b.publish(ctx, RoutingStatus, Envelope{Event: RoutingStatus, Transaction: tx})
}

func (b *Broker) publish(ctx context.Context, key string, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return b.channel.PublishWithContext(ctx,
		b.exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			ContentType:  "application/json",
			Body:         body,
		},
	)
}

// Close tears down the channel and connection.
func (b *Broker) Close() {
	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		b.conn.Close()
	}
}
