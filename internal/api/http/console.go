package http

import (
	"sync"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel"
)

// Console serialises every access to a Nucleus. Holding its lock plays the
// part of running with interrupts disabled: kernel operations and their
// observers never overlap.
type Console struct {
	mu sync.Mutex
	n  *kernel.Nucleus
}

// NewConsole wraps n.
func NewConsole(n *kernel.Nucleus) *Console {
	return &Console{n: n}
}

// Do runs fn with exclusive access to the Nucleus.
func (c *Console) Do(fn func(n *kernel.Nucleus)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.n)
}

// Snapshot copies the state under the lock.
func (c *Console) Snapshot() kernel.Snapshot {
	var snap kernel.Snapshot
	c.Do(func(n *kernel.Nucleus) { snap = n.Snapshot() })
	return snap
}
