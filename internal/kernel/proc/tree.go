package proc

import (
	"errors"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/arena"
)

// ErrCycle is returned when attaching a process below one of its own descendants.
var ErrCycle = errors.New("attach would create a cycle")

// HasNoChildren reports whether p has no children. None has no children.
func (t *Table) HasNoChildren(p Handle) bool {
	pcb := t.pcbs.Get(p)
	return pcb == nil || pcb.child == None
}

// AttachChild makes child the first child of parent; the previous first
// child becomes child's next sibling. A child that already has a parent is
// rejected. When child has children of its own, parent's ancestors are
// walked to reject a cycle, so that case costs O(depth); a leaf attaches
// in O(1).
func (t *Table) AttachChild(parent, child Handle) error {
	pp := t.pcbs.Get(parent)
	cp := t.pcbs.Get(child)
	if pp == nil || cp == nil || parent == child {
		return arena.ErrInvalidHandle
	}
	if cp.parent != None {
		return ErrAttached
	}
	if cp.child != None {
		for a := pp.parent; a != None; a = t.pcbs.Get(a).parent {
			if a == child {
				return ErrCycle
			}
		}
	}

	cp.sib = pp.child
	cp.parent = parent
	pp.child = child
	return nil
}

// DetachFirstChild removes and returns parent's first child, or None.
// Only that one node is detached; its own children stay attached to it.
func (t *Table) DetachFirstChild(parent Handle) Handle {
	pp := t.pcbs.Get(parent)
	if pp == nil || pp.child == None {
		return None
	}
	child := pp.child
	cp := t.pcbs.Get(child)
	pp.child = cp.sib
	cp.parent = None
	cp.sib = None
	return child
}

// Detach removes p from its parent's child list wherever it sits.
func (t *Table) Detach(p Handle) (Handle, error) {
	pcb := t.pcbs.Get(p)
	if pcb == nil {
		return None, arena.ErrInvalidHandle
	}
	if pcb.parent == None {
		return None, ErrNotAttached
	}
	pp := t.pcbs.Get(pcb.parent)

	if pp.child == p {
		pp.child = pcb.sib
	} else {
		prev := pp.child
		for prev != None && t.pcbs.Get(prev).sib != p {
			prev = t.pcbs.Get(prev).sib
		}
		if prev == None {
			return None, ErrNotAttached
		}
		t.pcbs.Get(prev).sib = pcb.sib
	}
	pcb.parent = None
	pcb.sib = None
	return p, nil
}

// DetachSubtree detaches p from its parent, then takes its whole subtree
// apart with repeated DetachFirstChild calls. The walk uses an explicit
// stack so tree depth is unbounded. It returns p followed by every
// descendant in pre-order.
func (t *Table) DetachSubtree(p Handle) []Handle {
	if !t.pcbs.Live(p) {
		return nil
	}
	if t.pcbs.Get(p).parent != None {
		_, _ = t.Detach(p)
	}

	out := []Handle{p}
	stack := []Handle{p}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		c := t.DetachFirstChild(top)
		if c == None {
			stack = stack[:len(stack)-1]
			continue
		}
		out = append(out, c)
		stack = append(stack, c)
	}
	return out
}

// Parent returns p's parent, or None.
func (t *Table) Parent(p Handle) Handle {
	if pcb := t.pcbs.Get(p); pcb != nil {
		return pcb.parent
	}
	return None
}

// Children returns p's children, first child first.
func (t *Table) Children(p Handle) []Handle {
	pcb := t.pcbs.Get(p)
	if pcb == nil {
		return nil
	}
	var out []Handle
	for c := pcb.child; c != None; c = t.pcbs.Get(c).sib {
		out = append(out, c)
	}
	return out
}

// Subtree returns p and every descendant in pre-order without changing any
// link.
func (t *Table) Subtree(p Handle) []Handle {
	if !t.pcbs.Live(p) {
		return nil
	}
	var out []Handle
	stack := []Handle{p}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, top)
		kids := t.Children(top)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}
