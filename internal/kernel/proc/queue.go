package proc

import "github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/arena"

// Queue is a FIFO of PCBs kept as a circular singly-linked ring through
// PCB.next. Only the tail is stored; the head is tail.next. The zero Queue
// is empty.
type Queue struct {
	tail Handle
}

// EmptyQueue returns an empty queue.
func (t *Table) EmptyQueue() Queue {
	return Queue{}
}

// IsEmpty reports whether q has no members.
func (t *Table) IsEmpty(q Queue) bool {
	return q.tail == None
}

// Enqueue appends p as the new tail of q.
func (t *Table) Enqueue(q *Queue, p Handle) error {
	if q == nil {
		return arena.ErrInvalidHandle
	}
	pcb := t.pcbs.Get(p)
	if pcb == nil {
		return arena.ErrInvalidHandle
	}
	if pcb.next != None {
		return ErrQueued
	}

	var tail *PCB
	if q.tail != None {
		tail = t.pcbs.Get(q.tail)
		if tail == nil || tail.next == None {
			// stale queue from before the last Init
			q.tail = None
			tail = nil
		}
	}

	if tail == nil {
		pcb.next = p
	} else {
		pcb.next = tail.next
		tail.next = p
	}
	q.tail = p
	return nil
}

// Dequeue removes and returns the head of q, or None when q is empty.
func (t *Table) Dequeue(q *Queue) Handle {
	if q == nil || q.tail == None {
		return None
	}
	tail := t.pcbs.Get(q.tail)
	var hp *PCB
	if tail != nil {
		hp = t.pcbs.Get(tail.next)
	}
	if hp == nil {
		// stale queue from before the last Init
		q.tail = None
		return None
	}
	head := tail.next

	if head == q.tail {
		q.tail = None
	} else {
		tail.next = hp.next
	}
	hp.next = None
	return head
}

// Remove unlinks p from anywhere in q. It walks the ring once and returns
// ErrNotFound if p is not a member, leaving q untouched.
func (t *Table) Remove(q *Queue, p Handle) (Handle, error) {
	if q == nil || p == None {
		return None, arena.ErrInvalidHandle
	}
	pcb := t.pcbs.Get(p)
	if q.tail == None || pcb == nil || pcb.next == None {
		return None, ErrNotFound
	}

	prev := q.tail
	for {
		pp := t.pcbs.Get(prev)
		if pp == nil {
			return None, ErrNotFound
		}
		cur := pp.next
		if cur == p {
			break
		}
		prev = cur
		if prev == q.tail {
			return None, ErrNotFound
		}
	}

	if prev == p {
		q.tail = None
	} else {
		t.pcbs.Get(prev).next = pcb.next
		if q.tail == p {
			q.tail = prev
		}
	}
	pcb.next = None
	return p, nil
}

// Head returns the head of q without removing it, or None.
func (t *Table) Head(q Queue) Handle {
	tail := t.pcbs.Get(q.tail)
	if tail == nil {
		return None
	}
	return tail.next
}

// Len walks q and returns its size.
func (t *Table) Len(q Queue) int {
	n := 0
	t.walk(q, func(Handle) { n++ })
	return n
}

// Members returns q's PCBs from head to tail.
func (t *Table) Members(q Queue) []Handle {
	var out []Handle
	t.walk(q, func(h Handle) { out = append(out, h) })
	return out
}

func (t *Table) walk(q Queue, fn func(Handle)) {
	if q.tail == None {
		return
	}
	h := q.tail
	for {
		pcb := t.pcbs.Get(h)
		if pcb == nil {
			return
		}
		h = pcb.next
		if h == None {
			return
		}
		fn(h)
		if h == q.tail {
			return
		}
	}
}
