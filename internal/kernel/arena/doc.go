// Package arena provides a fixed-capacity descriptor pool.
//
// An Arena preallocates every slot at construction and threads the free
// slots through an intrusive free list, so Alloc and Release are O(1) and
// never touch the Go allocator. Descriptors are addressed by Handle rather
// than by pointer; handle 0 (None) never names a slot.
//
// Example Usage:
//
//	pool, err := arena.New[PCB](20)
//	h, err := pool.Alloc()
//	if errors.Is(err, arena.ErrExhausted) {
//		// no capacity
//	}
//	pcb := pool.Get(h)
//	_ = pool.Release(h)
//
// Arenas are not safe for concurrent use.
package arena
