package proc

import (
	"errors"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/arena"
)

var (
	ErrNotFound    = errors.New("process not in queue")
	ErrNotAttached = errors.New("process has no parent")
	ErrAttached    = errors.New("process already has a parent")
	ErrQueued      = errors.New("process already queued")
	ErrLinked      = errors.New("process still linked")
)

// Handle names a process control block.
type Handle = arena.Handle

// None is the empty process handle.
const None = arena.None

// PCB is a process control block. Queue links and tree links are
// independent: a PCB can sit in one queue and in the tree at once.
type PCB struct {
	next   Handle // queue ring
	parent Handle
	child  Handle // first child
	sib    Handle // next sibling
	sema   arena.Handle
}

// Links is a read-only copy of a PCB's links.
type Links struct {
	Next   Handle `json:"next"`
	Parent Handle `json:"parent"`
	Child  Handle `json:"child"`
	Sib    Handle `json:"sib"`
	Sema   Handle `json:"sema"`
}

// Table owns every PCB in the system.
type Table struct {
	pcbs *arena.Arena[PCB]
}

// NewTable creates a table of capacity PCBs, all free.
func NewTable(capacity int) (*Table, error) {
	pcbs, err := arena.New[PCB](capacity)
	if err != nil {
		return nil, err
	}
	return &Table{pcbs: pcbs}, nil
}

// Init frees every PCB. All handles issued before the call are invalid.
func (t *Table) Init() {
	t.pcbs.Init()
}

// Alloc hands out a PCB with every link cleared.
func (t *Table) Alloc() (Handle, error) {
	return t.pcbs.Alloc()
}

// Release returns p to the free list. A PCB that is still queued, attached
// to a parent or has children is rejected with ErrLinked, since freeing it
// would leave other descriptors pointing at a free slot.
func (t *Table) Release(p Handle) error {
	if p == None {
		return arena.ErrInvalidHandle
	}
	pcb := t.pcbs.Get(p)
	if pcb == nil {
		return t.pcbs.Release(p)
	}
	if pcb.next != None || pcb.parent != None || pcb.child != None {
		return ErrLinked
	}
	return t.pcbs.Release(p)
}

// Live reports whether p is allocated.
func (t *Table) Live(p Handle) bool {
	return t.pcbs.Live(p)
}

// Cap returns the table size.
func (t *Table) Cap() int { return t.pcbs.Cap() }

// Free returns the number of free PCBs.
func (t *Table) Free() int { return t.pcbs.Free() }

// FreeList returns the free PCBs in allocation order.
func (t *Table) FreeList() []Handle { return t.pcbs.FreeList() }

// Links returns a copy of p's links, false if p is not allocated.
func (t *Table) Links(p Handle) (Links, bool) {
	pcb := t.pcbs.Get(p)
	if pcb == nil {
		return Links{}, false
	}
	return Links{
		Next:   pcb.next,
		Parent: pcb.parent,
		Child:  pcb.child,
		Sib:    pcb.sib,
		Sema:   pcb.sema,
	}, true
}

// Each calls fn for every allocated PCB in slot order.
func (t *Table) Each(fn func(Handle, Links)) {
	t.pcbs.Each(func(h Handle, pcb *PCB) {
		fn(h, Links{Next: pcb.next, Parent: pcb.parent, Child: pcb.child, Sib: pcb.sib, Sema: pcb.sema})
	})
}

// BlockedOn returns the semaphore p is blocked on, or None.
func (t *Table) BlockedOn(p Handle) arena.Handle {
	if pcb := t.pcbs.Get(p); pcb != nil {
		return pcb.sema
	}
	return None
}

// SetBlockedOn records the semaphore p waits on. It is maintained by the
// semaphore layer and ignored for free PCBs.
func (t *Table) SetBlockedOn(p Handle, s arena.Handle) {
	if pcb := t.pcbs.Get(p); pcb != nil {
		pcb.sema = s
	}
}

// Queued reports whether p is a member of some queue.
func (t *Table) Queued(p Handle) bool {
	pcb := t.pcbs.Get(p)
	return pcb != nil && pcb.next != None
}
