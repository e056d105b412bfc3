package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/sema"
	"github.com/kelseyhightower/envconfig"
)

// FileEnv names the variable holding an optional boot file path.
const FileEnv = "NUCLEUS_CONFIG"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all application configuration.
type Config struct {
	Kernel    KernelConfig    `yaml:"kernel" toml:"kernel" json:"kernel"`
	Server    ServerConfig    `yaml:"server" toml:"server" json:"server"`
	Logging   LogConfig       `yaml:"logging" toml:"logging" json:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit" json:"rate_limit"`
	Dump      DumpConfig      `yaml:"dump" toml:"dump" json:"dump"`
}

// KernelConfig sizes the descriptor pools.
type KernelConfig struct {
	MaxProc int    `envconfig:"NUCLEUS_MAX_PROC" yaml:"max_proc" toml:"max_proc" json:"max_proc"`
	MaxSem  int    `envconfig:"NUCLEUS_MAX_SEM" yaml:"max_sem" toml:"max_sem" json:"max_sem"`
	Order   string `envconfig:"NUCLEUS_ASL_ORDER" yaml:"asl_order" toml:"asl_order" json:"asl_order"`
	Strict  bool   `envconfig:"NUCLEUS_STRICT" yaml:"strict" toml:"strict" json:"strict"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" yaml:"port" toml:"port" json:"port"`
	Host string `envconfig:"HOST" yaml:"host" toml:"host" json:"host"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" toml:"level" json:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" toml:"development" json:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"rps" toml:"rps" json:"rps"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst" toml:"burst" json:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled" toml:"enabled" json:"enabled"`
}

// DumpConfig controls the shutdown state dump. An empty path disables it.
type DumpConfig struct {
	Path string `envconfig:"NUCLEUS_DUMP_PATH" yaml:"path" toml:"path" json:"path"`
}

// Load builds the configuration in three layers: defaults, then the boot
// file named by NUCLEUS_CONFIG, then environment variables.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv(FileEnv); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Kernel: KernelConfig{
			MaxProc: 20,
			MaxSem:  20,
			Order:   sema.OrderIdentity.String(),
		},
		Server: ServerConfig{
			Port: "8090",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Validate rejects settings the kernel cannot boot with.
func (c *Config) Validate() error {
	if c.Kernel.MaxProc <= 0 {
		return fmt.Errorf("%w: NUCLEUS_MAX_PROC must be positive, got %d", ErrInvalid, c.Kernel.MaxProc)
	}
	if c.Kernel.MaxSem <= 0 {
		return fmt.Errorf("%w: NUCLEUS_MAX_SEM must be positive, got %d", ErrInvalid, c.Kernel.MaxSem)
	}
	if _, err := sema.ParseOrder(c.Kernel.Order); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("%w: PORT is empty", ErrInvalid)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate limit needs positive rps and burst", ErrInvalid)
	}
	return nil
}

// Nucleus converts the kernel section into kernel.Config.
func (c *Config) Nucleus() (kernel.Config, error) {
	order, err := sema.ParseOrder(c.Kernel.Order)
	if err != nil {
		return kernel.Config{}, err
	}
	return kernel.Config{
		MaxProc: c.Kernel.MaxProc,
		MaxSem:  c.Kernel.MaxSem,
		Order:   order,
		Strict:  c.Kernel.Strict,
	}, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
