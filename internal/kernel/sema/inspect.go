package sema

import (
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/arena"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/proc"
)

// State returns s's lifecycle tag; unallocated handles are StateFree.
func (l *ASL) State(s Handle) State {
	if sd := l.pool.Get(s); sd != nil {
		return sd.state
	}
	return StateFree
}

// Value returns s's integer value.
func (l *ASL) Value(s Handle) (int, bool) {
	sd := l.pool.Get(s)
	if sd == nil {
		return 0, false
	}
	return sd.value, true
}

// SetValue stores a new value. A descriptor already on the ASL keeps the
// position it was given when it joined.
func (l *ASL) SetValue(s Handle, v int) error {
	sd := l.pool.Get(s)
	if sd == nil {
		return arena.ErrInvalidHandle
	}
	sd.value = v
	return nil
}

// Head returns the first descriptor on the ASL, or None.
func (l *ASL) Head() Handle { return l.head }

// Active returns the ASL in list order.
func (l *ASL) Active() []Handle {
	out := make([]Handle, 0, l.n)
	for s := l.head; s != None; s = l.pool.Get(s).next {
		out = append(out, s)
	}
	return out
}

// Next returns the descriptor after s on the ASL.
func (l *ASL) Next(s Handle) Handle {
	if sd := l.pool.Get(s); sd != nil {
		return sd.next
	}
	return None
}

// Blocked returns s's queue from head to tail.
func (l *ASL) Blocked(s Handle) []proc.Handle {
	sd := l.pool.Get(s)
	if sd == nil {
		return nil
	}
	return l.procs.Members(sd.queue)
}

// Info describes one allocated descriptor.
func (l *ASL) Info(s Handle) (Info, bool) {
	sd := l.pool.Get(s)
	if sd == nil {
		return Info{}, false
	}
	return Info{
		Handle:  s,
		State:   sd.state.String(),
		Value:   sd.value,
		Key:     sd.key,
		Next:    sd.next,
		Blocked: l.procs.Members(sd.queue),
	}, true
}

// Each calls fn for every allocated descriptor in slot order.
func (l *ASL) Each(fn func(Info)) {
	l.pool.Each(func(s Handle, _ *Semd) {
		if info, ok := l.Info(s); ok {
			fn(info)
		}
	})
}

// Len returns the number of descriptors on the ASL.
func (l *ASL) Len() int { return l.n }

// Cap returns the pool size.
func (l *ASL) Cap() int { return l.pool.Cap() }

// Free returns the number of free descriptors.
func (l *ASL) Free() int { return l.pool.Free() }

// FreeList returns the free descriptors in allocation order.
func (l *ASL) FreeList() []Handle { return l.pool.FreeList() }

// Order returns the configured sort key.
func (l *ASL) Order() Order { return l.order }
