package http

import (
	"net/http"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

type pidRequest struct {
	PID *uint32 `json:"pid" binding:"required"`
}

// queueName reads and validates the :name path parameter.
func queueName(c *gin.Context) (string, bool) {
	name := c.Param("name")
	if err := utils.ValidateQueueName(name); err != nil {
		badRequest(c, err)
		return "", false
	}
	return name, true
}

// ListQueues lists named queues with their members
func (h *Handlers) ListQueues(c *gin.Context) {
	queues := make(map[string][]kernel.Handle)
	h.console.Do(func(n *kernel.Nucleus) {
		for _, name := range n.QueueNames() {
			queues[name] = n.Procs().Members(*n.Queue(name))
		}
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"queues":  queues,
	})
}

// GetQueue shows a named queue from head to tail
func (h *Handlers) GetQueue(c *gin.Context) {
	name, ok := queueName(c)
	if !ok {
		return
	}

	var (
		members []kernel.Handle
		head    kernel.Handle
	)
	h.console.Do(func(n *kernel.Nucleus) {
		if q, ok := n.FindQueue(name); ok {
			members = n.Procs().Members(*q)
			head = n.Head(*q)
		}
	})
	if members == nil {
		members = []kernel.Handle{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"name":    name,
		"head":    handleJSON(head),
		"members": members,
	})
}

// Enqueue appends the body's pid to a named queue
func (h *Handlers) Enqueue(c *gin.Context) {
	name, ok := queueName(c)
	if !ok {
		return
	}
	var req pidRequest
	if !bind(c, &req) {
		return
	}
	p := kernel.Handle(*req.PID)

	var err error
	h.console.Do(func(n *kernel.Nucleus) { err = n.Enqueue(n.Queue(name), p) })
	if err != nil {
		kernelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"name":    name,
		"pid":     p,
	})
}

// Dequeue removes the head of a named queue
func (h *Handlers) Dequeue(c *gin.Context) {
	name, ok := queueName(c)
	if !ok {
		return
	}

	var p kernel.Handle
	h.console.Do(func(n *kernel.Nucleus) { p = n.Dequeue(n.Queue(name)) })

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"name":    name,
		"pid":     handleJSON(p),
	})
}

// RemoveFromQueue removes the body's pid from a named queue
func (h *Handlers) RemoveFromQueue(c *gin.Context) {
	name, ok := queueName(c)
	if !ok {
		return
	}
	var req pidRequest
	if !bind(c, &req) {
		return
	}
	p := kernel.Handle(*req.PID)

	var err error
	h.console.Do(func(n *kernel.Nucleus) { _, err = n.Remove(n.Queue(name), p) })
	if err != nil {
		kernelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"name":    name,
		"pid":     p,
	})
}
