// Package main runs the nucleus debug console.
//
// The server boots a process and semaphore kernel and exposes it over HTTP:
// a JSON API under /debug, Prometheus metrics on /metrics and a websocket
// event feed on /stream.
//
// Configuration:
//   - defaults, then the boot file named by NUCLEUS_CONFIG or -config
//   - environment variables (NUCLEUS_MAX_PROC, PORT, LOG_LEVEL, ...)
//   - -port and -dev flags last
//
// Usage:
//
//	./server -config nucleus.yaml
//	./server -port 8090 -dev
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown, then the state dump if
//     NUCLEUS_DUMP_PATH is set
package main
