// Package server assembles the nucleus console. It boots the kernel with its
// observers attached and owns the router and HTTP lifecycle.
//
// Routes:
//   - /health and /debug/...: see package http
//   - /metrics: Prometheus exposition
//   - /stream: websocket event feed
//
// On Close the server writes a state dump when config.Dump.Path is set.
package server
