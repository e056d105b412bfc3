package kernel

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/arena"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/proc"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/sema"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/shared/id"
	"go.uber.org/zap"
)

// Handle is a descriptor handle, shared by processes and semaphores.
type Handle = arena.Handle

// None is the empty handle.
const None = arena.None

// Config sizes the two descriptor pools.
type Config struct {
	MaxProc int
	MaxSem  int
	Order   sema.Order
	Strict  bool // panic on invariant violations
}

// DefaultConfig returns the stock pool sizes.
func DefaultConfig() Config {
	return Config{
		MaxProc: 20,
		MaxSem:  20,
		Order:   sema.OrderIdentity,
	}
}

// Option configures a Nucleus.
type Option func(*Nucleus)

// WithObserver adds an event observer. Observers run in registration order.
func WithObserver(o Observer) Option {
	return func(n *Nucleus) {
		if o != nil {
			n.observers = append(n.observers, o)
		}
	}
}

// WithLogger sets the logger used for boot and strict-mode messages.
func WithLogger(l *zap.Logger) Option {
	return func(n *Nucleus) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(n *Nucleus) {
		if now != nil {
			n.now = now
		}
	}
}

// Nucleus owns the process table, the semaphore pool and the ASL. It is
// not safe for concurrent use; callers serialise access.
type Nucleus struct {
	cfg       Config
	procs     *proc.Table
	asl       *sema.ASL
	queues    map[string]*proc.Queue
	boot      id.BootID
	observers Observers
	logger    *zap.Logger
	now       func() time.Time
}

// New allocates both pools and boots them.
func New(cfg Config, opts ...Option) (*Nucleus, error) {
	procs, err := proc.NewTable(cfg.MaxProc)
	if err != nil {
		return nil, fmt.Errorf("process table: %w", err)
	}
	asl, err := sema.NewASL(procs, cfg.MaxSem, cfg.Order)
	if err != nil {
		return nil, fmt.Errorf("semaphore pool: %w", err)
	}

	n := &Nucleus{
		cfg:    cfg,
		procs:  procs,
		asl:    asl,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.Boot()
	return n, nil
}

// Boot reinitialises both modules and drops every named queue. Handles
// issued before the call are invalid afterwards.
func (n *Nucleus) Boot() id.BootID {
	n.procs.Init()
	n.asl.Init()
	n.queues = make(map[string]*proc.Queue)
	n.boot = id.NewBootID()

	n.logger.Info("Kernel modules initialized",
		zap.String("boot", n.boot.String()),
		zap.Int("max_proc", n.cfg.MaxProc),
		zap.Int("max_sem", n.cfg.MaxSem),
		zap.String("asl_order", n.cfg.Order.String()))

	n.emit(OpBoot, None, None, nil)
	return n.boot
}

// BootID returns the ID of the current boot.
func (n *Nucleus) BootID() id.BootID { return n.boot }

// Config returns the configuration the Nucleus was built with.
func (n *Nucleus) Config() Config { return n.cfg }

// Procs exposes the process table for inspection. Mutations made through it
// bypass observers.
func (n *Nucleus) Procs() *proc.Table { return n.procs }

// ASL exposes the semaphore layer for inspection.
func (n *Nucleus) ASL() *sema.ASL { return n.asl }

// Stats returns the current pool counters.
func (n *Nucleus) Stats() Stats {
	return Stats{
		ProcsFree: n.procs.Free(),
		SemsFree:  n.asl.Free(),
		ASLLen:    n.asl.Len(),
	}
}

// Queue returns the named caller queue, creating an empty one on first use.
func (n *Nucleus) Queue(name string) *proc.Queue {
	q, ok := n.queues[name]
	if !ok {
		empty := n.procs.EmptyQueue()
		q = &empty
		n.queues[name] = q
	}
	return q
}

// FindQueue returns the named queue without creating it.
func (n *Nucleus) FindQueue(name string) (*proc.Queue, bool) {
	q, ok := n.queues[name]
	return q, ok
}

// QueueNames lists the named queues in sorted order.
func (n *Nucleus) QueueNames() []string {
	names := make([]string, 0, len(n.queues))
	for name := range n.queues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsInvariant reports whether err is a rejected contract violation rather
// than a missing or exhausted resource.
func IsInvariant(err error) bool {
	for _, target := range []error{
		arena.ErrDoubleRelease,
		proc.ErrAttached,
		proc.ErrQueued,
		proc.ErrLinked,
		proc.ErrCycle,
		sema.ErrActive,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// emit wraps err with the operation name and notifies observers. In strict
// mode an invariant violation panics after observers have seen it.
func (n *Nucleus) emit(op Op, p, s Handle, err error) error {
	if err != nil {
		err = fmt.Errorf("%s: %w", op, err)
	}
	n.observers.Observe(Event{
		Op:    op,
		Boot:  n.boot.String(),
		Proc:  p,
		Sema:  s,
		Err:   err,
		Stats: n.Stats(),
		Time:  n.now(),
	})
	if err != nil && n.cfg.Strict && IsInvariant(err) {
		n.logger.Error("Kernel invariant violated",
			zap.String("op", string(op)),
			zap.Stringer("pid", p),
			zap.Stringer("sid", s),
			zap.Error(err))
		panic(err)
	}
	return err
}
