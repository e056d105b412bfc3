// Package logging provides structured logging using uber/zap.
//
// Two output modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Kernel operations log at Debug, rejected operations at Warn, and server
// lifecycle messages at Info.
//
// Example Usage:
//
//	logger, err := logging.New(logging.Config{Level: "debug", Development: true})
//	logger.Info("Server starting", zap.String("addr", ":8090"))
//	defer logger.Close()
package logging
