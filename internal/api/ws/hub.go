package ws

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Message types sent to subscribers
const (
	TypeSystem = "system"
	TypeEvent  = "event"
	TypePong   = "pong"
	TypeError  = "error"
)

// Message is one frame of the event stream.
type Message struct {
	Type    string        `json:"type"`
	Message string        `json:"message,omitempty"`
	ID      string        `json:"subscriber,omitempty"`
	Op      kernel.Op     `json:"op,omitempty"`
	Boot    string        `json:"boot,omitempty"`
	PID     kernel.Handle `json:"pid,omitempty"`
	SID     kernel.Handle `json:"sid,omitempty"`
	Result  string        `json:"result,omitempty"`
	Error   string        `json:"error,omitempty"`
	Stats   *kernel.Stats `json:"stats,omitempty"`
	Time    int64         `json:"timestamp"`
}

// FromEvent converts a kernel event into a stream frame.
func FromEvent(e kernel.Event) Message {
	stats := e.Stats
	msg := Message{
		Type:   TypeEvent,
		Op:     e.Op,
		Boot:   e.Boot,
		PID:    e.Proc,
		SID:    e.Sema,
		Result: e.Result(),
		Stats:  &stats,
		Time:   e.Time.UnixMilli(),
	}
	if e.Err != nil {
		msg.Error = e.Err.Error()
	}
	return msg
}

// Stats receives subscriber counters. monitoring.Metrics implements it.
type Stats interface {
	IncWSConnections()
	DecWSConnections()
	IncWSDropped()
}

type nopStats struct{}

func (nopStats) IncWSConnections() {}
func (nopStats) DecWSConnections() {}
func (nopStats) IncWSDropped()     {}

type subscriber struct {
	ch      chan Message
	dropped atomic.Uint64
}

// Hub fans kernel events out to subscribers. Observe never blocks: a
// subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]*subscriber
	buffer int
	closed bool
	stats  Stats
	logger *zap.Logger
}

// NewHub creates a hub giving each subscriber a buffer of the given size.
func NewHub(buffer int, logger *zap.Logger, stats Stats) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if stats == nil {
		stats = nopStats{}
	}
	return &Hub{
		subs:   make(map[uuid.UUID]*subscriber),
		buffer: buffer,
		stats:  stats,
		logger: logger,
	}
}

// Observe implements kernel.Observer.
func (h *Hub) Observe(e kernel.Event) {
	h.Broadcast(FromEvent(e))
}

// Broadcast offers msg to every subscriber.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, sub := range h.subs {
		select {
		case sub.ch <- msg:
		default:
			h.stats.IncWSDropped()
			if sub.dropped.Add(1) == 1 {
				h.logger.Warn("Event stream subscriber is falling behind", zap.String("subscriber", id.String()))
			}
		}
	}
}

// Subscribe registers a new subscriber. The channel is closed on
// Unsubscribe or Close. ok is false once the hub is closed.
func (h *Hub) Subscribe() (id uuid.UUID, ch <-chan Message, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return uuid.Nil, nil, false
	}
	id = uuid.New()
	sub := &subscriber{ch: make(chan Message, h.buffer)}
	h.subs[id] = sub
	h.stats.IncWSConnections()
	return id, sub.ch, true
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.ch)
		h.stats.DecWSConnections()
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
		h.stats.DecWSConnections()
	}
}

func systemMessage(text string) Message {
	return Message{Type: TypeSystem, Message: text, Time: time.Now().UnixMilli()}
}
