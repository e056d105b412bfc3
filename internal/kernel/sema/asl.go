package sema

import (
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/arena"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/proc"
)

// ASL is the semaphore pool together with the active semaphore list: the
// sorted chain of descriptors that currently have blocked processes.
type ASL struct {
	procs *proc.Table
	pool  *arena.Arena[Semd]
	head  Handle
	order Order
	n     int
}

// NewASL creates a pool of capacity semaphore descriptors whose blocked
// queues hold PCBs from procs.
func NewASL(procs *proc.Table, capacity int, order Order) (*ASL, error) {
	pool, err := arena.New[Semd](capacity)
	if err != nil {
		return nil, err
	}
	return &ASL{procs: procs, pool: pool, order: order}, nil
}

// Init frees every descriptor and empties the ASL.
func (l *ASL) Init() {
	l.pool.Init()
	l.head = None
	l.n = 0
}

// InitSemaphore takes a descriptor from the pool and sets its value. It
// fails with arena.ErrExhausted when the pool is empty.
func (l *ASL) InitSemaphore(value int) (Handle, error) {
	s, err := l.pool.Alloc()
	if err != nil {
		return None, err
	}
	sd := l.pool.Get(s)
	sd.value = value
	sd.queue = l.procs.EmptyQueue()
	sd.state = StateOwned
	return s, nil
}

// Release returns an owned descriptor to the pool. Descriptors on the ASL
// leave it only through RemoveBlocked or OutBlocked.
func (l *ASL) Release(s Handle) error {
	sd := l.pool.Get(s)
	if sd != nil && sd.state == StateActive {
		return ErrActive
	}
	return l.pool.Release(s)
}

// InsertBlocked appends p to s's queue. If s was not on the ASL it is
// spliced in first, ahead of the first descriptor whose key is not less.
func (l *ASL) InsertBlocked(s Handle, p proc.Handle) error {
	sd := l.pool.Get(s)
	if sd == nil || !l.procs.Live(p) {
		return arena.ErrInvalidHandle
	}
	if err := l.procs.Enqueue(&sd.queue, p); err != nil {
		return err
	}
	l.procs.SetBlockedOn(p, s)

	if sd.state != StateActive {
		l.splice(s, sd)
	}
	return nil
}

// RemoveBlocked dequeues the head of s's queue. When that empties the
// queue, s leaves the ASL and goes back to the pool in the same call.
func (l *ASL) RemoveBlocked(s Handle) proc.Handle {
	sd := l.pool.Get(s)
	if sd == nil || sd.state != StateActive {
		return proc.None
	}
	p := l.procs.Dequeue(&sd.queue)
	l.procs.SetBlockedOn(p, None)
	if l.procs.IsEmpty(sd.queue) {
		l.retire(s)
	}
	return p
}

// OutBlocked removes p from whichever active semaphore holds it.
func (l *ASL) OutBlocked(p proc.Handle) (proc.Handle, error) {
	if p == proc.None {
		return proc.None, arena.ErrInvalidHandle
	}
	for s := l.head; s != None; {
		sd := l.pool.Get(s)
		if _, err := l.procs.Remove(&sd.queue, p); err == nil {
			l.procs.SetBlockedOn(p, None)
			if l.procs.IsEmpty(sd.queue) {
				l.retire(s)
			}
			return p, nil
		}
		s = sd.next
	}
	return proc.None, ErrNotFound
}

// HeadBlocked returns the head of s's queue without removing it.
func (l *ASL) HeadBlocked(s Handle) proc.Handle {
	sd := l.pool.Get(s)
	if sd == nil {
		return proc.None
	}
	return l.procs.Head(sd.queue)
}

func (l *ASL) key(s Handle, sd *Semd) int64 {
	if l.order == OrderValue {
		return int64(sd.value)
	}
	return int64(s)
}

func (l *ASL) splice(s Handle, sd *Semd) {
	sd.key = l.key(s, sd)

	prev := None
	cur := l.head
	for cur != None {
		cd := l.pool.Get(cur)
		if cd.key >= sd.key {
			break
		}
		prev = cur
		cur = cd.next
	}

	sd.next = cur
	if prev == None {
		l.head = s
	} else {
		l.pool.Get(prev).next = s
	}
	sd.state = StateActive
	l.n++
}

// retire unsplices s and frees it. s must be on the ASL.
func (l *ASL) retire(s Handle) {
	sd := l.pool.Get(s)
	if l.head == s {
		l.head = sd.next
	} else {
		prev := l.head
		for prev != None && l.pool.Get(prev).next != s {
			prev = l.pool.Get(prev).next
		}
		if prev != None {
			l.pool.Get(prev).next = sd.next
		}
	}
	sd.next = None
	sd.state = StateFree
	l.n--
	_ = l.pool.Release(s)
}
