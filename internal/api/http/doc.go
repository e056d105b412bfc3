// Package http implements the debug console: a JSON API over a Nucleus.
//
// Every handler runs its kernel calls inside Console.Do, so requests never
// interleave. Handles are plain decimal integers in paths and bodies; an
// empty result (nothing dequeued, no child) is rendered as null.
//
// Error mapping:
//   - exhausted pool: 507
//   - not found, not attached: 404
//   - invalid handle or invariant violation: 409
//   - malformed request: 400
package http
