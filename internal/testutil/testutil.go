// Package testutil provides mocks and helpers shared by package tests.
package testutil

import (
	"sync"
	"testing"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/sema"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockObserver is a mock implementation of kernel.Observer.
type MockObserver struct {
	mock.Mock
}

// Observe mocks the Observe method.
func (m *MockObserver) Observe(e kernel.Event) {
	m.Called(e)
}

// NewMockObserver creates a mock observer whose expectations are asserted
// when the test ends.
func NewMockObserver(t *testing.T) *MockObserver {
	t.Helper()
	m := new(MockObserver)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// OpIs matches events of the given operation.
func OpIs(op kernel.Op) interface{} {
	return mock.MatchedBy(func(e kernel.Event) bool { return e.Op == op })
}

// Recorder collects events in order.
type Recorder struct {
	mu     sync.Mutex
	events []kernel.Event
}

// Observe implements kernel.Observer.
func (r *Recorder) Observe(e kernel.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []kernel.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]kernel.Event(nil), r.events...)
}

// Ops returns the recorded operation names.
func (r *Recorder) Ops() []kernel.Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	ops := make([]kernel.Op, len(r.events))
	for i, e := range r.events {
		ops[i] = e.Op
	}
	return ops
}

// Last returns the most recent event.
func (r *Recorder) Last() kernel.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return kernel.Event{}
	}
	return r.events[len(r.events)-1]
}

// Reset drops recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// NewNucleus builds a small kernel for tests.
func NewNucleus(t *testing.T, maxProc, maxSem int, opts ...kernel.Option) *kernel.Nucleus {
	t.Helper()
	cfg := kernel.Config{MaxProc: maxProc, MaxSem: maxSem, Order: sema.OrderIdentity}
	opts = append([]kernel.Option{kernel.WithLogger(zap.NewNop())}, opts...)
	n, err := kernel.New(cfg, opts...)
	require.NoError(t, err)
	return n
}

// AllocProcs allocates count PCBs.
func AllocProcs(t *testing.T, n *kernel.Nucleus, count int) []kernel.Handle {
	t.Helper()
	out := make([]kernel.Handle, count)
	for i := range out {
		p, err := n.AllocProc()
		require.NoError(t, err)
		out[i] = p
	}
	return out
}
