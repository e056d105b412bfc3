package sema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/arena"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/proc"
)

var (
	ErrNotFound = errors.New("process not blocked on any semaphore")
	ErrActive   = errors.New("semaphore has blocked processes")
	ErrOrder    = errors.New("unknown asl order")
)

// Handle names a semaphore descriptor.
type Handle = arena.Handle

// None is the empty semaphore handle.
const None = arena.None

// State is the lifecycle tag of a semaphore descriptor.
type State uint8

const (
	StateFree   State = iota // on the free list
	StateOwned               // initialised, no blocked processes
	StateActive              // on the ASL with at least one blocked process
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateOwned:
		return "owned"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Order selects the ASL sort key.
type Order int

const (
	// OrderIdentity sorts by descriptor handle.
	OrderIdentity Order = iota
	// OrderValue sorts by the semaphore value at the time it joined the ASL.
	OrderValue
)

// String returns the config spelling of the order
func (o Order) String() string {
	switch o {
	case OrderIdentity:
		return "identity"
	case OrderValue:
		return "value"
	default:
		return "unknown"
	}
}

// ParseOrder converts "identity" or "value" into an Order.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "identity":
		return OrderIdentity, nil
	case "value":
		return OrderValue, nil
	default:
		return OrderIdentity, fmt.Errorf("%w: %q", ErrOrder, s)
	}
}

// Semd is a semaphore descriptor. It owns the queue of processes blocked
// on it and, while active, a link in the ASL.
type Semd struct {
	next  Handle // ASL link
	value int
	queue proc.Queue
	state State
	key   int64 // sort key, fixed while on the ASL
}

// Info is a read-only view of a semaphore descriptor.
type Info struct {
	Handle  Handle        `json:"sid"`
	State   string        `json:"state"`
	Value   int           `json:"value"`
	Key     int64         `json:"key"`
	Next    Handle        `json:"next"`
	Blocked []proc.Handle `json:"blocked"`
}
