package http

import (
	"net/http"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/proc"
	"github.com/gin-gonic/gin"
)

type procView struct {
	PID       kernel.Handle   `json:"pid"`
	Links     proc.Links      `json:"links"`
	Children  []kernel.Handle `json:"children"`
	BlockedOn interface{}     `json:"blocked_on"`
}

// ListProcs lists allocated processes
func (h *Handlers) ListProcs(c *gin.Context) {
	var (
		procs []kernel.ProcInfo
		free  []kernel.Handle
	)
	h.console.Do(func(n *kernel.Nucleus) {
		procs = []kernel.ProcInfo{}
		n.Procs().Each(func(p kernel.Handle, l proc.Links) {
			procs = append(procs, kernel.ProcInfo{Handle: p, Links: l})
		})
		free = n.Procs().FreeList()
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"procs":   procs,
		"free":    free,
	})
}

// CreateProc allocates a process descriptor
func (h *Handlers) CreateProc(c *gin.Context) {
	var (
		p   kernel.Handle
		err error
	)
	h.console.Do(func(n *kernel.Nucleus) { p, err = n.AllocProc() })
	if err != nil {
		kernelError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"pid":     p,
	})
}

// GetProc shows one process with its links
func (h *Handlers) GetProc(c *gin.Context) {
	p, ok := parseHandle(c, "pid")
	if !ok {
		return
	}

	var (
		view  procView
		found bool
	)
	h.console.Do(func(n *kernel.Nucleus) {
		links, live := n.Procs().Links(p)
		if !live {
			return
		}
		found = true
		view = procView{
			PID:       p,
			Links:     links,
			Children:  n.Procs().Children(p),
			BlockedOn: handleJSON(links.Sema),
		}
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "process not allocated",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"proc":    view,
	})
}

// ReleaseProc returns a process descriptor to the free list
func (h *Handlers) ReleaseProc(c *gin.Context) {
	p, ok := parseHandle(c, "pid")
	if !ok {
		return
	}

	var err error
	h.console.Do(func(n *kernel.Nucleus) { err = n.ReleaseProc(p) })
	if err != nil {
		kernelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"pid":     p,
	})
}

// ReapProc releases a process together with its descendants
func (h *Handlers) ReapProc(c *gin.Context) {
	p, ok := parseHandle(c, "pid")
	if !ok {
		return
	}

	var (
		reaped []kernel.Handle
		err    error
	)
	h.console.Do(func(n *kernel.Nucleus) { reaped, err = n.Reap(p) })
	if err != nil {
		kernelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reaped":  reaped,
	})
}

// AttachChild makes the body's child the first child of :pid
func (h *Handlers) AttachChild(c *gin.Context) {
	parent, ok := parseHandle(c, "pid")
	if !ok {
		return
	}
	var req struct {
		Child *uint32 `json:"child" binding:"required"`
	}
	if !bind(c, &req) {
		return
	}
	child := kernel.Handle(*req.Child)

	var err error
	h.console.Do(func(n *kernel.Nucleus) { err = n.AttachChild(parent, child) })
	if err != nil {
		kernelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"parent":  parent,
		"child":   child,
	})
}

// DetachFirstChild detaches :pid's first child
func (h *Handlers) DetachFirstChild(c *gin.Context) {
	parent, ok := parseHandle(c, "pid")
	if !ok {
		return
	}

	var child kernel.Handle
	h.console.Do(func(n *kernel.Nucleus) { child = n.DetachFirstChild(parent) })

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"child":   handleJSON(child),
	})
}

// DetachProc detaches :pid from its parent
func (h *Handlers) DetachProc(c *gin.Context) {
	p, ok := parseHandle(c, "pid")
	if !ok {
		return
	}

	var (
		parent kernel.Handle
		err    error
	)
	h.console.Do(func(n *kernel.Nucleus) {
		parent = n.Procs().Parent(p)
		_, err = n.Detach(p)
	})
	if err != nil {
		kernelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"pid":     p,
		"parent":  parent,
	})
}

// UnblockProc removes :pid from whichever semaphore it is blocked on
func (h *Handlers) UnblockProc(c *gin.Context) {
	p, ok := parseHandle(c, "pid")
	if !ok {
		return
	}

	var (
		sid kernel.Handle
		err error
	)
	h.console.Do(func(n *kernel.Nucleus) {
		sid = n.Procs().BlockedOn(p)
		_, err = n.OutBlocked(p)
	})
	if err != nil {
		kernelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"pid":     p,
		"sid":     sid,
	})
}
