// Package sema keeps the semaphore descriptor pool and the active
// semaphore list (ASL).
//
// Each descriptor owns one proc.Queue of blocked processes. A descriptor
// moves Free -> Owned on InitSemaphore, Owned -> Active when the first
// process blocks on it, and Active -> Free in the same call that removes
// its last blocked process. The ASL therefore holds exactly the descriptors
// with a non-empty queue.
//
// The ASL is sorted by a key captured when a descriptor joins it: the
// descriptor handle by default (OrderIdentity), or the semaphore value
// (OrderValue). A descriptor joins ahead of any with an equal key.
//
// Counting semantics (P/V) are left to the caller; this package only stores
// the value.
package sema
