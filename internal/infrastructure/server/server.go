package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/AgentOS/nucleus/internal/api/http"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/api/middleware"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/api/ws"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel"
)

const streamBuffer = 256

// Server wraps the HTTP server and the kernel it exposes
type Server struct {
	router  *gin.Engine
	http    *http.Server
	console *apihttp.Console
	hub     *ws.Hub
	metrics *monitoring.Metrics
	logger  *logging.Logger
	config  *config.Config
}

// NewServer creates a server with a logger built from cfg.Logging.
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return New(cfg, logger)
}

// New creates a server that logs to logger.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	kcfg, err := cfg.Nucleus()
	if err != nil {
		return nil, fmt.Errorf("invalid kernel config: %w", err)
	}

	logger.Info("Initializing nucleus console",
		zap.String("addr", cfg.Addr()),
		zap.Int("max_proc", kcfg.MaxProc),
		zap.Int("max_sem", kcfg.MaxSem),
		zap.String("asl_order", kcfg.Order.String()),
		zap.Bool("strict", kcfg.Strict),
	)

	metrics := monitoring.NewMetrics()
	hub := ws.NewHub(streamBuffer, logger.Logger, metrics)

	// Observers see the boot event emitted by kernel.New.
	n, err := kernel.New(kcfg,
		kernel.WithLogger(logger.Logger),
		kernel.WithObserver(kernel.NewLogObserver(logger.Logger)),
		kernel.WithObserver(metrics),
		kernel.WithObserver(hub),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to boot kernel: %w", err)
	}
	console := apihttp.NewConsole(n)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger.Logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	apihttp.NewHandlers(console, logger.Logger).Register(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/stream", ws.NewHandler(hub, logger.Logger).HandleConnection)

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		console: console,
		hub:     hub,
		metrics: metrics,
		logger:  logger,
		config:  cfg,
	}, nil
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Console returns the serialised kernel access point.
func (s *Server) Console() *apihttp.Console { return s.console }

// Run serves HTTP until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown disconnects stream subscribers and stops accepting requests,
// waiting for in-flight ones until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	s.hub.Close()
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Close writes the state dump, if configured, and flushes the logger.
func (s *Server) Close() error {
	var errs []error
	if path := s.config.Dump.Path; path != "" {
		if err := s.Dump(path); err != nil {
			s.logger.Error("Failed to write state dump", zap.String("path", path), zap.Error(err))
			errs = append(errs, err)
		} else {
			s.logger.Info("State dump written", zap.String("path", path))
		}
	}
	if err := s.logger.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to sync logger: %w", err))
	}
	return errors.Join(errs...)
}

// Dump writes a snapshot to path, gzip-compressed when path ends in ".gz".
// The file is replaced atomically.
func (s *Server) Dump(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".nucleus-dump-*")
	if err != nil {
		return fmt.Errorf("create dump: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeDump(tmp, path, s.console.Snapshot()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close dump: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename dump: %w", err)
	}
	return nil
}

func writeDump(f *os.File, path string, snap kernel.Snapshot) error {
	if !strings.HasSuffix(path, ".gz") {
		if err := kernel.WriteSnapshot(f, snap); err != nil {
			return fmt.Errorf("write dump: %w", err)
		}
		return nil
	}

	zw := gzip.NewWriter(f)
	zw.Name = strings.TrimSuffix(filepath.Base(path), ".gz")
	if err := kernel.WriteSnapshot(zw, snap); err != nil {
		return fmt.Errorf("write dump: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress dump: %w", err)
	}
	return nil
}
