// Package proc manages process control blocks.
//
// A Table owns a fixed number of PCBs and layers two intrusive structures
// over them:
//   - Queue: a FIFO kept as a circular singly-linked ring, addressed by its tail
//   - the process tree: parent, first-child and next-sibling links
//
// The two are orthogonal; a PCB may be queued and attached at the same time.
// Every operation is O(1) except Remove, Detach and the inspection helpers,
// which walk a ring or a sibling chain.
//
// Failures are reported through return values: arena.ErrExhausted when the
// table is full, ErrNotFound and ErrNotAttached when a target is absent, and
// arena.ErrInvalidHandle, ErrAttached, ErrQueued, ErrLinked or ErrCycle when
// a call would break an invariant. "Nothing there" results such as dequeuing
// an empty queue return None.
//
// A Table is not safe for concurrent use.
package proc
