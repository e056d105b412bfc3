package http

import (
	"net/http"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/sema"
	"github.com/gin-gonic/gin"
)

// GetASL shows the active semaphore list in order
func (h *Handlers) GetASL(c *gin.Context) {
	var (
		active []sema.Info
		order  string
	)
	h.console.Do(func(n *kernel.Nucleus) {
		order = n.ASL().Order().String()
		active = []sema.Info{}
		for _, s := range n.ASL().Active() {
			if info, ok := n.ASL().Info(s); ok {
				active = append(active, info)
			}
		}
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
		"asl":     active,
	})
}

// CreateSem initialises a semaphore descriptor
func (h *Handlers) CreateSem(c *gin.Context) {
	var req struct {
		Value int `json:"value"`
	}
	if !bindOptional(c, &req) {
		return
	}

	var (
		s   kernel.Handle
		err error
	)
	h.console.Do(func(n *kernel.Nucleus) { s, err = n.InitSemaphore(req.Value) })
	if err != nil {
		kernelError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"sid":     s,
		"value":   req.Value,
	})
}

// GetSem shows one semaphore descriptor and its blocked queue
func (h *Handlers) GetSem(c *gin.Context) {
	s, ok := parseHandle(c, "sid")
	if !ok {
		return
	}

	var (
		info  sema.Info
		found bool
	)
	h.console.Do(func(n *kernel.Nucleus) { info, found = n.ASL().Info(s) })
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "semaphore not allocated",
		})
		return
	}
	if info.Blocked == nil {
		info.Blocked = []kernel.Handle{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sem":     info,
	})
}

// ReleaseSem returns an unused semaphore descriptor to the pool
func (h *Handlers) ReleaseSem(c *gin.Context) {
	s, ok := parseHandle(c, "sid")
	if !ok {
		return
	}

	var err error
	h.console.Do(func(n *kernel.Nucleus) { err = n.ReleaseSemaphore(s) })
	if err != nil {
		kernelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sid":     s,
	})
}

// BlockOnSem blocks the body's pid on :sid
func (h *Handlers) BlockOnSem(c *gin.Context) {
	s, ok := parseHandle(c, "sid")
	if !ok {
		return
	}
	var req pidRequest
	if !bind(c, &req) {
		return
	}
	p := kernel.Handle(*req.PID)

	var err error
	h.console.Do(func(n *kernel.Nucleus) { err = n.InsertBlocked(s, p) })
	if err != nil {
		kernelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sid":     s,
		"pid":     p,
	})
}

// UnblockSem unblocks the head of :sid's queue
func (h *Handlers) UnblockSem(c *gin.Context) {
	s, ok := parseHandle(c, "sid")
	if !ok {
		return
	}

	var (
		p     kernel.Handle
		state string
	)
	h.console.Do(func(n *kernel.Nucleus) {
		p = n.RemoveBlocked(s)
		state = n.ASL().State(s).String()
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"sid":     s,
		"pid":     handleJSON(p),
		"state":   state,
	})
}
