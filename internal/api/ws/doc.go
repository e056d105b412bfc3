// Package ws streams kernel events to websocket clients.
//
// Hub is a kernel.Observer. It runs inside the console's critical section,
// so it never blocks: each subscriber has a bounded buffer and events that
// do not fit are dropped and counted. Clients may send {"type":"ping"} and
// get a pong back.
package ws
