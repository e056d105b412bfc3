package kernel

import (
	"time"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/arena"
)

// Op names a mutating kernel operation.
type Op string

const (
	OpBoot          Op = "boot"
	OpAllocProc     Op = "alloc_proc"
	OpReleaseProc   Op = "release_proc"
	OpEnqueue       Op = "enqueue"
	OpDequeue       Op = "dequeue"
	OpRemove        Op = "remove"
	OpAttachChild   Op = "attach_child"
	OpDetachFirst   Op = "detach_first_child"
	OpDetach        Op = "detach"
	OpReap          Op = "reap"
	OpInitSemaphore Op = "init_semaphore"
	OpReleaseSem    Op = "release_semaphore"
	OpInsertBlocked Op = "insert_blocked"
	OpRemoveBlocked Op = "remove_blocked"
	OpOutBlocked    Op = "out_blocked"
)

// Result labels
const (
	ResultOK    = "ok"
	ResultNone  = "none"
	ResultError = "error"
)

// Stats are the pool counters after an operation.
type Stats struct {
	ProcsFree int `json:"procs_free"`
	SemsFree  int `json:"sems_free"`
	ASLLen    int `json:"asl_len"`
}

// Event describes one completed operation. Proc and Sema hold the handles the
// operation touched or returned; Err is nil on success.
type Event struct {
	Op    Op
	Boot  string
	Proc  arena.Handle
	Sema  arena.Handle
	Err   error
	Stats Stats
	Time  time.Time
}

// Result classifies the event for metrics and logs.
func (e Event) Result() string {
	switch {
	case e.Err != nil:
		return ResultError
	case e.Proc.IsNone() && e.Sema.IsNone() && e.Op != OpBoot:
		return ResultNone
	default:
		return ResultOK
	}
}

// Observer receives every event synchronously, inside the caller's critical
// section. Implementations must not block or call back into the Nucleus.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

// Observers fans an event out in order.
type Observers []Observer

// Observe delivers e to each observer.
func (o Observers) Observe(e Event) {
	for _, obs := range o {
		obs.Observe(e)
	}
}
