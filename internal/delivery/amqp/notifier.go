package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DefaultQueue receives challenge deliveries.
const DefaultQueue = "challenge.deliveries"

// Delivery is the message published for downstream chat gateways.
type Delivery struct {
	ID      uuid.UUID `json:"id"`
	UserID  string    `json:"user_id"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// publisher is the part of *amqp.Channel the notifier uses.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Notifier publishes deliveries to a durable RabbitMQ queue.
type Notifier struct {
	conn   *amqp.Connection
	ch     publisher
	queue  string
	logger *zap.Logger
	now    func() time.Time
}

// Dial connects to RabbitMQ and declares the delivery queue.
func Dial(url, queue string, logger *zap.Logger) (*Notifier, error) {
	if queue == "" {
		queue = DefaultQueue
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %q: %w", queue, err)
	}

	logger.Info("connected to RabbitMQ", zap.String("queue", queue))

	n := newNotifier(ch, queue, logger)
	n.conn = conn
	return n, nil
}

func newNotifier(ch publisher, queue string, logger *zap.Logger) *Notifier {
	return &Notifier{
		ch:     ch,
		queue:  queue,
		logger: logger,
		now:    time.Now,
	}
}

// Send publishes one persistent JSON delivery.
func (n *Notifier) Send(ctx context.Context, userID, message string) error {
	d := Delivery{
		ID:      uuid.New(),
		UserID:  userID,
		Message: message,
		SentAt:  n.now().UTC(),
	}

	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery: %w", err)
	}

	err = n.ch.PublishWithContext(
		ctx,
		"",      // exchange
		n.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    d.ID.String(),
			Timestamp:    d.SentAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish delivery: %w", err)
	}

	n.logger.Debug("delivery published", zap.String("user_id", userID), zap.String("delivery_id", d.ID.String()))
	return nil
}

// Close closes the channel and the connection.
func (n *Notifier) Close() error {
	if c, ok := n.ch.(interface{ Close() error }); ok {
		_ = c.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
