package arena

import (
	"errors"
	"fmt"
)

var (
	ErrExhausted       = errors.New("arena exhausted")
	ErrInvalidHandle   = errors.New("invalid handle")
	ErrDoubleRelease   = errors.New("descriptor already free")
	ErrInvalidCapacity = errors.New("capacity must be positive")
)

// Handle addresses one slot of an Arena. Slot i is handle i+1 so the zero
// value is None and a zeroed descriptor has every link empty.
type Handle uint32

// None is the empty handle.
const None Handle = 0

// IsNone reports whether h is the empty handle
func (h Handle) IsNone() bool {
	return h == None
}

// String returns the handle as "#n", or "none"
func (h Handle) String() string {
	if h == None {
		return "none"
	}
	return fmt.Sprintf("#%d", uint32(h))
}

type slot[T any] struct {
	value T
	next  Handle // free-list link, only meaningful while free
	live  bool
}

// Arena is a fixed-capacity pool of T with an intrusive free list.
// It performs no allocation after New.
type Arena[T any] struct {
	slots []slot[T]
	free  Handle
	nfree int
}

// New creates an arena with capacity slots, all free.
func New[T any](capacity int) (*Arena[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	a := &Arena[T]{slots: make([]slot[T], capacity)}
	a.Init()
	return a, nil
}

// Init resets the arena to fully free. Slot i links to slot i+1 and the
// last slot terminates the list. Outstanding handles become invalid.
func (a *Arena[T]) Init() {
	var zero T
	n := len(a.slots)
	for i := range a.slots {
		a.slots[i].value = zero
		a.slots[i].live = false
		if i == n-1 {
			a.slots[i].next = None
		} else {
			a.slots[i].next = Handle(i + 2)
		}
	}
	a.free = Handle(1)
	a.nfree = n
}

// Alloc pops the head of the free list. The returned descriptor is reset
// to its zero value.
func (a *Arena[T]) Alloc() (Handle, error) {
	if a.free == None {
		return None, ErrExhausted
	}
	h := a.free
	s := &a.slots[h-1]
	a.free = s.next

	var zero T
	s.value = zero
	s.next = None
	s.live = true
	a.nfree--
	return h, nil
}

// Release pushes h back on the head of the free list. None, out of range
// and already-free handles are rejected without touching the free list.
func (a *Arena[T]) Release(h Handle) error {
	if !a.valid(h) {
		return ErrInvalidHandle
	}
	s := &a.slots[h-1]
	if !s.live {
		return ErrDoubleRelease
	}

	var zero T
	s.value = zero
	s.live = false
	s.next = a.free
	a.free = h
	a.nfree++
	return nil
}

// Get returns the descriptor for a live handle, nil otherwise.
func (a *Arena[T]) Get(h Handle) *T {
	if !a.Live(h) {
		return nil
	}
	return &a.slots[h-1].value
}

// Live reports whether h is currently allocated.
func (a *Arena[T]) Live(h Handle) bool {
	return a.valid(h) && a.slots[h-1].live
}

func (a *Arena[T]) valid(h Handle) bool {
	return h != None && int(h) <= len(a.slots)
}

// Cap returns the number of slots.
func (a *Arena[T]) Cap() int { return len(a.slots) }

// Free returns the number of free slots.
func (a *Arena[T]) Free() int { return a.nfree }

// Used returns the number of allocated slots.
func (a *Arena[T]) Used() int { return len(a.slots) - a.nfree }

// FreeList returns the free handles in the order Alloc would hand them out.
func (a *Arena[T]) FreeList() []Handle {
	out := make([]Handle, 0, a.nfree)
	for h := a.free; h != None; h = a.slots[h-1].next {
		out = append(out, h)
	}
	return out
}

// Each calls fn for every live descriptor in slot order.
func (a *Arena[T]) Each(fn func(Handle, *T)) {
	for i := range a.slots {
		if a.slots[i].live {
			fn(Handle(i+1), &a.slots[i].value)
		}
	}
}
