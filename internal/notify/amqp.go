package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventTaskAssigned is the event type published for new assignments.
const EventTaskAssigned = "task.assigned"

// AMQPConfig holds broker settings for AMQPNotifier.
type AMQPConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// publisher is the subset of *amqp.Channel used for publishing.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type assignmentEvent struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Task       Message   `json:"task"`
}

// AMQPNotifier publishes assignment events to a RabbitMQ exchange for an
// external mailer to consume.
type AMQPNotifier struct {
	conn       *amqp.Connection
	channel    publisher
	exchange   string
	routingKey string
	logger     *slog.Logger
	now        func() time.Time
}

// Ensure AMQPNotifier implements Notifier interface
var _ Notifier = (*AMQPNotifier)(nil)

// DialAMQP connects to the broker, declares the topic exchange and returns a
// ready notifier.
func DialAMQP(cfg AMQPConfig, logger *slog.Logger) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	n := newAMQPNotifier(ch, cfg.Exchange, cfg.RoutingKey, logger)
	n.conn = conn
	return n, nil
}

func newAMQPNotifier(ch publisher, exchange, routingKey string, logger *slog.Logger) *AMQPNotifier {
	return &AMQPNotifier{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger.With("component", "amqp_notifier"),
		now:        time.Now,
	}
}

// Notify publishes one persistent task.assigned event.
func (n *AMQPNotifier) Notify(ctx context.Context, msg Message) error {
	body, err := json.Marshal(assignmentEvent{
		Type:       EventTaskAssigned,
		OccurredAt: n.now().UTC(),
		Task:       msg,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event: %v", ErrNotification, err)
	}

	err = n.channel.PublishWithContext(ctx,
		n.exchange,
		n.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.TaskID.String(),
			Type:         EventTaskAssigned,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to publish event: %v", ErrNotification, err)
	}

	n.logger.Debug("assignment event published", "task_id", msg.TaskID)
	return nil
}

// Close closes the broker connection, if this notifier owns one.
func (n *AMQPNotifier) Close() error {
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
