package audit

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/sto-scheduler/internal/logging"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

const (
	ActionAppointmentCreated          = "appointment_created"
	ActionAppointmentUpdated          = "appointment_updated"
	ActionAppointmentConfirmed        = "appointment_confirmed"
	ActionAppointmentCompleted        = "appointment_completed"
	ActionAppointmentCancelled        = "appointment_cancelled"
	ActionAppointmentCancelledByAdmin = "appointment_cancelled_by_admin"
	ActionAppointmentConflict         = "appointment_conflict"
	ActionCustomerBlocked             = "customer_blocked"
	ActionCustomerUnblocked           = "customer_unblocked"
	ActionCatalogChanged              = "catalog_changed"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any

	// Appointment carries the booking for sinks that notify people.
	Appointment *models.Appointment
	At          time.Time
}

// Sink receives dispatched events on the worker goroutine.
type Sink interface {
	Handle(ctx context.Context, ev Event) error
}

type SinkFunc func(ctx context.Context, ev Event) error

func (f SinkFunc) Handle(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

type Dispatcher struct {
	log   *logging.Logger
	sinks []Sink
	queue chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(log *logging.Logger, sinks ...Sink) *Dispatcher {
	if log == nil {
		log = logging.Default()
	}
	d := &Dispatcher{
		log:   log,
		sinks: sinks,
		queue: make(chan Event, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := s.Handle(ctx, ev); err != nil {
				d.log.Error("audit sink failed",
					"action", ev.Action,
					"entity", ev.Entity,
					"error", err,
				)
			}
			cancel()
		}
	}
}

// Dispatch never blocks the request; when the queue is full the event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close stops accepting events and waits until queued ones are handled.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}
