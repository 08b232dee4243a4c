package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	"github.com/BruksfildServices01/sto-scheduler/internal/logging"
)

// BookingEvent is the message body published for every booking change.
type BookingEvent struct {
	Action        string    `json:"action"`
	AppointmentID uint      `json:"appointment_id"`
	CustomerID    *uint     `json:"customer_id,omitempty"`
	BoxID         *uint     `json:"box_id,omitempty"`
	ServiceID     uint      `json:"service_id"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Status        string    `json:"status"`
	TotalPrice    string    `json:"total_price"`
	ActorID       *uint     `json:"actor_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewBookingEvent(ev audit.Event) BookingEvent {
	ap := ev.Appointment
	return BookingEvent{
		Action:        ev.Action,
		AppointmentID: ap.ID,
		CustomerID:    ap.CustomerID,
		BoxID:         ap.BoxID,
		ServiceID:     ap.ServiceID,
		Date:          ap.AppointmentDate,
		StartTime:     ap.StartTime,
		EndTime:       ap.EndTime,
		Status:        ap.Status,
		TotalPrice:    ap.TotalPrice.StringFixed(2),
		ActorID:       ev.UserID,
		OccurredAt:    ev.At.UTC(),
	}
}

type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type dialFunc func(url string) (channel, io.Closer, error)

func dialAMQP(url string) (channel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return ch, conn, nil
}

// Publisher sends booking events to a durable RabbitMQ queue. The
// connection is opened lazily and reopened after a failed publish.
type Publisher struct {
	url   string
	queue string
	log   *logging.Logger
	dial  dialFunc

	mu   sync.Mutex
	ch   channel
	conn io.Closer
}

// NewPublisher returns nil when url is empty; a nil publisher drops events.
func NewPublisher(url, queue string, log *logging.Logger) *Publisher {
	if url == "" {
		return nil
	}
	if log == nil {
		log = logging.Default()
	}
	return &Publisher{url: url, queue: queue, log: log, dial: dialAMQP}
}

// Handle publishes appointment events and ignores the rest.
func (p *Publisher) Handle(ctx context.Context, ev audit.Event) error {
	if p == nil || ev.Appointment == nil {
		return nil
	}
	return p.Publish(ctx, NewBookingEvent(ev))
}

func (p *Publisher) Publish(ctx context.Context, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("broker: marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.connect(); err != nil {
		return err
	}

	err = p.ch.PublishWithContext(ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Type:         event.Action,
			Body:         body,
		},
	)
	if err != nil {
		p.reset()
		return fmt.Errorf("broker: publish: %w", err)
	}
	return nil
}

func (p *Publisher) connect() error {
	if p.ch != nil {
		return nil
	}

	ch, conn, err := p.dial(p.url)
	if err != nil {
		return fmt.Errorf("broker: dial: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("broker: declare %s: %w", p.queue, err)
	}

	p.ch, p.conn = ch, conn
	p.log.Info("rabbitmq connected", "queue", p.queue)
	return nil
}

func (p *Publisher) reset() {
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}
