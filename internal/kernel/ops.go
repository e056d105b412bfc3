package kernel

import (
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/arena"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/proc"
)

// ============================================================================
// Process lifecycle
// ============================================================================

// AllocProc takes a PCB from the free list.
func (n *Nucleus) AllocProc() (Handle, error) {
	p, err := n.procs.Alloc()
	return p, n.emit(OpAllocProc, p, None, err)
}

// ReleaseProc returns p to the free list. p must be out of every queue and
// out of the tree.
func (n *Nucleus) ReleaseProc(p Handle) error {
	return n.emit(OpReleaseProc, p, None, n.procs.Release(p))
}

// ============================================================================
// Queues
// ============================================================================

// EmptyQueue returns a new empty queue.
func (n *Nucleus) EmptyQueue() proc.Queue { return n.procs.EmptyQueue() }

// IsEmpty reports whether q has no members.
func (n *Nucleus) IsEmpty(q proc.Queue) bool { return n.procs.IsEmpty(q) }

// Enqueue appends p to q.
func (n *Nucleus) Enqueue(q *proc.Queue, p Handle) error {
	return n.emit(OpEnqueue, p, None, n.procs.Enqueue(q, p))
}

// Dequeue removes and returns the head of q, or None.
func (n *Nucleus) Dequeue(q *proc.Queue) Handle {
	p := n.procs.Dequeue(q)
	_ = n.emit(OpDequeue, p, None, nil)
	return p
}

// Remove takes p out of q wherever it sits.
func (n *Nucleus) Remove(q *proc.Queue, p Handle) (Handle, error) {
	got, err := n.procs.Remove(q, p)
	return got, n.emit(OpRemove, p, None, err)
}

// Head returns the head of q without removing it.
func (n *Nucleus) Head(q proc.Queue) Handle { return n.procs.Head(q) }

// ============================================================================
// Process tree
// ============================================================================

// HasNoChildren reports whether p is childless.
func (n *Nucleus) HasNoChildren(p Handle) bool { return n.procs.HasNoChildren(p) }

// AttachChild makes child the first child of parent.
func (n *Nucleus) AttachChild(parent, child Handle) error {
	return n.emit(OpAttachChild, child, None, n.procs.AttachChild(parent, child))
}

// DetachFirstChild removes and returns parent's first child, or None.
func (n *Nucleus) DetachFirstChild(parent Handle) Handle {
	c := n.procs.DetachFirstChild(parent)
	_ = n.emit(OpDetachFirst, c, None, nil)
	return c
}

// Detach removes p from its parent.
func (n *Nucleus) Detach(p Handle) (Handle, error) {
	got, err := n.procs.Detach(p)
	return got, n.emit(OpDetach, p, None, err)
}

// ============================================================================
// Semaphores
// ============================================================================

// InitSemaphore takes a semaphore descriptor from the pool.
func (n *Nucleus) InitSemaphore(value int) (Handle, error) {
	s, err := n.asl.InitSemaphore(value)
	return s, n.emit(OpInitSemaphore, None, s, err)
}

// ReleaseSemaphore returns an unused descriptor to the pool.
func (n *Nucleus) ReleaseSemaphore(s Handle) error {
	return n.emit(OpReleaseSem, None, s, n.asl.Release(s))
}

// InsertBlocked blocks p on s.
func (n *Nucleus) InsertBlocked(s, p Handle) error {
	return n.emit(OpInsertBlocked, p, s, n.asl.InsertBlocked(s, p))
}

// RemoveBlocked unblocks the head of s's queue, or returns None.
func (n *Nucleus) RemoveBlocked(s Handle) Handle {
	p := n.asl.RemoveBlocked(s)
	sid := s
	if p == None {
		sid = None
	}
	_ = n.emit(OpRemoveBlocked, p, sid, nil)
	return p
}

// OutBlocked removes p from the semaphore it is blocked on.
func (n *Nucleus) OutBlocked(p Handle) (Handle, error) {
	s := n.procs.BlockedOn(p)
	got, err := n.asl.OutBlocked(p)
	return got, n.emit(OpOutBlocked, p, s, err)
}

// HeadBlocked returns the head of s's queue without removing it.
func (n *Nucleus) HeadBlocked(s Handle) Handle { return n.asl.HeadBlocked(s) }

// ============================================================================
// Reaping
// ============================================================================

// Reap tears down p's subtree: it detaches p from its parent, pulls every
// member off the semaphore it is blocked on and releases all of them. If a
// member still sits on a caller-owned queue the call fails with
// proc.ErrQueued and nothing changes. The released handles are returned
// in pre-order.
func (n *Nucleus) Reap(p Handle) ([]Handle, error) {
	if !n.procs.Live(p) {
		return nil, n.emit(OpReap, p, None, arena.ErrInvalidHandle)
	}
	for _, m := range n.procs.Subtree(p) {
		if n.procs.Queued(m) && n.procs.BlockedOn(m) == None {
			return nil, n.emit(OpReap, m, None, proc.ErrQueued)
		}
	}

	members := n.procs.DetachSubtree(p)
	for _, m := range members {
		if n.procs.BlockedOn(m) != None {
			_, _ = n.asl.OutBlocked(m)
		}
	}
	for _, m := range members {
		if err := n.procs.Release(m); err != nil {
			return members, n.emit(OpReap, m, None, err)
		}
	}
	return members, n.emit(OpReap, p, None, nil)
}
