/*
Package kernel ties the descriptor pools together into a single context
object.

# Overview

A Nucleus owns one process table (package proc) and one semaphore pool with
its active semaphore list (package sema). Boot is the only initialisation
entry point: it resets both pools, drops the named queues and stamps a new
boot ID. Every handle issued before a Boot is invalid after it.

# Events

Each mutating operation reports an Event to the registered observers after it
completes. Observers run synchronously in the caller's critical section:

	n, err := kernel.New(kernel.DefaultConfig(),
		kernel.WithObserver(kernel.NewLogObserver(logger)),
	)

Errors returned by the Nucleus wrap the package sentinels with the operation
name; match them with errors.Is.

# Strict mode

With Config.Strict set, invariant violations (double release, attaching an
attached child, queueing a queued process, releasing a linked process,
releasing a busy semaphore) panic once observers have seen them.

# Snapshots

Snapshot copies the full state; WriteSnapshot encodes it as JSON for
post-mortem dumps.
*/
package kernel
