package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const QueueBookingConfirmed = "booking.confirmed"

// BookingConfirmed is published after the backend accepted a booking.
// Downstream mailers use Newsletter to manage opt-ins.
type BookingConfirmed struct {
	BookingReference string    `json:"booking_reference"`
	PerformanceID    int64     `json:"performance_id"`
	ShowID           int64     `json:"show_id"`
	ShowName         string    `json:"show_name"`
	PerformanceDate  string    `json:"performance_date"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	TotalTickets     int       `json:"total_tickets"`
	TotalAmount      string    `json:"total_amount"`
	Newsletter       bool      `json:"newsletter"`
	ConfirmedAt      time.Time `json:"confirmed_at"`
}

// Publisher sends booking events to RabbitMQ. The connection is reopened on
// the next publish after the broker drops it.
type Publisher struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string) (*Publisher, error) {
	const op = "messaging.NewPublisher"

	p := &Publisher{url: url}
	if err := p.connect(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if _, err := ch.QueueDeclare(QueueBookingConfirmed, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	p.conn = conn
	p.ch = ch

	return nil
}

func (p *Publisher) PublishBookingConfirmed(ctx context.Context, ev BookingConfirmed) error {
	const op = "messaging.Publisher.PublishBookingConfirmed"

	msg, err := bookingConfirmedMessage(ev, time.Now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() || p.ch == nil || p.ch.IsClosed() {
		if err := p.connect(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	err = p.ch.PublishWithContext(ctx, "", QueueBookingConfirmed, false, false, msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// bookingConfirmedMessage builds a persistent JSON message keyed by the
// booking reference so consumers can drop redeliveries.
func bookingConfirmedMessage(ev BookingConfirmed, now time.Time) (amqp.Publishing, error) {
	if ev.ConfirmedAt.IsZero() {
		ev.ConfirmedAt = now.UTC()
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now.UTC(),
		MessageId:    ev.BookingReference,
		Body:         body,
	}, nil
}

func (p *Publisher) Close() error {
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
