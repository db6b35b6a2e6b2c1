package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"github.com/user/storefront-harvester/internal/entity"
)

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type batchMessage struct {
	Seed       string    `json:"seed"`
	Profile    string    `json:"profile"`
	Records    []string  `json:"records"`
	Pages      int       `json:"pages"`
	Stop       string    `json:"stop"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// PublisherImpl publishes one JSON message per batch to a queue.
type PublisherImpl struct {
	conn    *amqp.Connection
	channel channel
	queue   string
}

// Dial connects to url and declares queue as durable.
func Dial(url, queue string) (*PublisherImpl, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to establish RabbitMQ connection: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to establish RabbitMQ channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return &PublisherImpl{conn: conn, channel: ch, queue: queue}, nil
}

func (p *PublisherImpl) Name() string { return "amqp:" + p.queue }

// Save publishes results in order.
func (p *PublisherImpl) Save(ctx context.Context, results []entity.BatchResult) error {
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		body, err := encodeBatch(r)
		if err != nil {
			return err
		}
		msg := amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    r.FinishedAt,
			Body:         body,
		}
		if err := p.channel.Publish("", p.queue, false, false, msg); err != nil {
			return fmt.Errorf("failed to publish message to queue: %w", err)
		}
	}
	return nil
}

// Close closes the connection and its channel.
func (p *PublisherImpl) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

func encodeBatch(r entity.BatchResult) ([]byte, error) {
	body, err := json.Marshal(batchMessage{
		Seed:       r.Seed.String(),
		Profile:    r.Profile,
		Records:    r.Texts(),
		Pages:      r.Pages,
		Stop:       string(r.Stop),
		Error:      r.Err,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch for %s: %w", r.Seed, err)
	}
	return body, nil
}
