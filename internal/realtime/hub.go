package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	"github.com/BruksfildServices01/sto-scheduler/internal/logging"
)

// Message is what connected dashboards receive for every booking event.
type Message struct {
	Type     string    `json:"type"`
	Entity   string    `json:"entity,omitempty"`
	EntityID *uint     `json:"entity_id,omitempty"`
	Date     string    `json:"appointment_date,omitempty"`
	Time     string    `json:"appointment_time,omitempty"`
	BoxID    *uint     `json:"box_id,omitempty"`
	Status   string    `json:"status,omitempty"`
	At       time.Time `json:"timestamp"`
}

// Hub fans events out to connected admin dashboards.
type Hub struct {
	log *logging.Logger

	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(log *logging.Logger) *Hub {
	if log == nil {
		log = logging.Default()
	}
	return &Hub{
		log:        log,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			h.log.Debug("live client connected", "user_id", c.userID)

		case c := <-h.unregister:
			h.remove(c)

		case data := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					// slow consumer
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.log.Debug("live client disconnected", "user_id", c.userID)
	}
}

// Clients reports how many dashboards are connected.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handle makes the hub an audit sink. Events are dropped when the
// broadcast buffer is full.
func (h *Hub) Handle(_ context.Context, ev audit.Event) error {
	if h == nil {
		return nil
	}

	msg := Message{
		Type:     ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		At:       ev.At,
	}
	if ap := ev.Appointment; ap != nil {
		msg.Date = ap.AppointmentDate
		msg.Time = ap.StartTime
		msg.BoxID = ap.BoxID
		msg.Status = ap.Status
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- data:
	default:
		h.log.Warn("live broadcast buffer full", "action", ev.Action)
	}
	return nil
}
