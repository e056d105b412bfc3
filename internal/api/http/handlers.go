package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/arena"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/proc"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/sema"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers contains the debug console handlers
type Handlers struct {
	console *Console
	logger  *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(console *Console, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{console: console, logger: logger}
}

// Register mounts every console route on r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/health", h.Health)

	debug := r.Group("/debug")
	debug.GET("/snapshot", h.Snapshot)
	debug.POST("/boot", h.Boot)

	debug.GET("/procs", h.ListProcs)
	debug.POST("/procs", h.CreateProc)
	debug.GET("/procs/:pid", h.GetProc)
	debug.DELETE("/procs/:pid", h.ReleaseProc)
	debug.POST("/procs/:pid/reap", h.ReapProc)
	debug.POST("/procs/:pid/children", h.AttachChild)
	debug.POST("/procs/:pid/children/detach-first", h.DetachFirstChild)
	debug.POST("/procs/:pid/detach", h.DetachProc)
	debug.POST("/procs/:pid/unblock", h.UnblockProc)

	debug.GET("/queues", h.ListQueues)
	debug.GET("/queues/:name", h.GetQueue)
	debug.POST("/queues/:name/enqueue", h.Enqueue)
	debug.POST("/queues/:name/dequeue", h.Dequeue)
	debug.POST("/queues/:name/remove", h.RemoveFromQueue)

	debug.GET("/asl", h.GetASL)
	debug.POST("/sems", h.CreateSem)
	debug.GET("/sems/:sid", h.GetSem)
	debug.DELETE("/sems/:sid", h.ReleaseSem)
	debug.POST("/sems/:sid/block", h.BlockOnSem)
	debug.POST("/sems/:sid/unblock", h.UnblockSem)
}

// Health reports pool usage
func (h *Handlers) Health(c *gin.Context) {
	var (
		stats kernel.Stats
		boot  string
		cfg   kernel.Config
	)
	h.console.Do(func(n *kernel.Nucleus) {
		stats = n.Stats()
		boot = n.BootID().String()
		cfg = n.Config()
	})

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "nucleus",
		"boot":      boot,
		"max_proc":  cfg.MaxProc,
		"max_sem":   cfg.MaxSem,
		"asl_order": cfg.Order.String(),
		"stats":     stats,
	})
}

// Snapshot returns the full kernel state. With ?download=1 the JSON dump is
// sent as a file.
func (h *Handlers) Snapshot(c *gin.Context) {
	snap := h.console.Snapshot()

	if c.Query("download") != "" && c.Query("download") != "0" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=nucleus-%s.json", snap.Boot))
		c.Header("Content-Type", "application/json")
		c.Status(http.StatusOK)
		if err := kernel.WriteSnapshot(c.Writer, snap); err != nil {
			h.logger.Error("Failed to stream snapshot", zap.Error(err))
			_ = c.Error(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"snapshot": snap,
	})
}

// Boot reinitialises the kernel
func (h *Handlers) Boot(c *gin.Context) {
	var boot string
	h.console.Do(func(n *kernel.Nucleus) { boot = n.Boot().String() })

	h.logger.Info("Kernel rebooted from console", zap.String("boot", boot))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"boot":    boot,
	})
}

// ============================================================================
// Helpers
// ============================================================================

// statusFor maps kernel errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, arena.ErrExhausted):
		return http.StatusInsufficientStorage
	case errors.Is(err, proc.ErrNotFound),
		errors.Is(err, proc.ErrNotAttached),
		errors.Is(err, sema.ErrNotFound):
		return http.StatusNotFound
	case kernel.IsInvariant(err), errors.Is(err, arena.ErrInvalidHandle):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func kernelError(c *gin.Context, err error) {
	fail(c, statusFor(err), err)
}

func badRequest(c *gin.Context, err error) {
	fail(c, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
}

// parseHandle reads a decimal handle from the named path parameter.
func parseHandle(c *gin.Context, param string) (kernel.Handle, bool) {
	v, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		badRequest(c, fmt.Errorf("%s must be an unsigned integer", param))
		return kernel.None, false
	}
	return kernel.Handle(v), true
}

// bindOptional binds a JSON body, accepting an empty one.
func bindOptional(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return false
	}
	return true
}

// bind binds a JSON body that must be present.
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}

// handleJSON renders None as null.
func handleJSON(h kernel.Handle) interface{} {
	if h == kernel.None {
		return nil
	}
	return h
}
