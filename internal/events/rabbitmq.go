package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	dialTimeout = 2 * time.Second
	// publishes after a failed dial skip reconnecting until this has passed
	redialInterval = 10 * time.Second
)

var ErrUnavailable = errors.New("rabbitmq unavailable")

// RabbitPublisher keeps one connection open and reopens it on the next
// publish after the broker drops it.
type RabbitPublisher struct {
	url    string
	queues []string
	logger *slog.Logger

	dialTimeout    time.Duration
	redialInterval time.Duration

	mu         sync.Mutex
	conn       *amqp.Connection
	ch         *amqp.Channel
	lastFailed time.Time
}

// NewRabbitPublisher dials the broker and declares the event queues.
func NewRabbitPublisher(url string, logger *slog.Logger) (*RabbitPublisher, error) {
	p := &RabbitPublisher{
		url:    url,
		queues: []string{CommentCreated, CommentReplied},
		logger: logger,

		dialTimeout:    dialTimeout,
		redialInterval: redialInterval,
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connectLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *RabbitPublisher) connectLocked() error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.dialTimeout),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	for _, q := range p.queues {
		// durable so messages survive broker restarts
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return fmt.Errorf("rabbitmq queue declare %s: %w", q, err)
		}
	}
	p.conn, p.ch = conn, ch
	return nil
}

// Publish sends event as a persistent JSON message on the default exchange.
func (p *RabbitPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", routingKey, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() || p.ch == nil || p.ch.IsClosed() {
		if !p.lastFailed.IsZero() && time.Since(p.lastFailed) < p.redialInterval {
			return ErrUnavailable
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		p.logger.Info("reconnecting to rabbitmq")
		if err := p.connectLocked(); err != nil {
			p.lastFailed = time.Now()
			return err
		}
		p.lastFailed = time.Time{}
	}

	err = p.ch.PublishWithContext(ctx,
		"",         // default exchange
		routingKey, // routing key = queue name
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NewPublisher returns a RabbitPublisher when url is set and reachable, and
// Noop otherwise.
func NewPublisher(url string, logger *slog.Logger) Publisher {
	if url == "" {
		return Noop{}
	}
	p, err := NewRabbitPublisher(url, logger)
	if err != nil {
		logger.Warn("rabbitmq unavailable, events disabled", "error", err)
		return Noop{}
	}
	return p
}
