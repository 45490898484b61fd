package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/MrJamesThe3rd/tracker/internal/ledger"
)

const publishTimeout = 5 * time.Second

// channel is the part of *amqp091.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Publisher forwards ledger events to a topic exchange. It implements
// ledger.Listener; publish failures are logged, never returned, so a broker
// outage cannot fail a ledger write.
type Publisher struct {
	ch       channel
	exchange string
	now      func() time.Time
	closer   func() error
}

// Dial connects to the broker at url and declares a durable topic exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()

		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newPublisher(ch, exchange)
	p.closer = func() error {
		ch.Close()
		return conn.Close()
	}

	return p, nil
}

func newPublisher(ch channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, now: time.Now}
}

func (p *Publisher) Notify(ctx context.Context, ev ledger.Event) {
	if err := p.Publish(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "failed to publish ledger event",
			"kind", ev.Kind,
			"ledger", ev.Key,
			"id", ev.Transaction.ID,
			"error", err)
	}
}

func (p *Publisher) Publish(ctx context.Context, ev ledger.Event) error {
	msg := NewTransactionMessage(ev, p.now())

	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(
		ctx,
		p.exchange,       // exchange
		msg.RoutingKey(), // routing key
		false,            // mandatory
		false,            // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    msg.MessageID.String(),
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.DebugContext(ctx, "published ledger event",
		"kind", ev.Kind,
		"ledger", ev.Key,
		"id", ev.Transaction.ID)

	return nil
}

func (p *Publisher) Close() error {
	if p.closer == nil {
		return nil
	}

	return p.closer()
}

var _ ledger.Listener = (*Publisher)(nil)
