// Package config provides 12-factor configuration for the nucleus server.
//
// Values are resolved in three layers, later layers winning:
//   - Defaults from Default()
//   - An optional boot file named by NUCLEUS_CONFIG (.yaml, .yml, .toml or .json)
//   - Environment variables
//
// Configuration Sections:
//   - Kernel: descriptor pool sizes, ASL order, strict mode
//   - Server: HTTP listen address
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting for the debug console
//   - Dump: shutdown snapshot path
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	kcfg, _ := cfg.Nucleus()
//
// Environment Variables:
//   - NUCLEUS_MAX_PROC, NUCLEUS_MAX_SEM, NUCLEUS_ASL_ORDER, NUCLEUS_STRICT
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - NUCLEUS_DUMP_PATH, NUCLEUS_CONFIG
package config
