package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glyphpad/previewd/internal/fileset"
	"github.com/glyphpad/previewd/internal/logging"
	"github.com/glyphpad/previewd/internal/preview"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	orchestrator *preview.Orchestrator
	logger       *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(orchestrator *preview.Orchestrator, logger *logging.Logger) *Handlers {
	return &Handlers{orchestrator: orchestrator, logger: logger}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "previewd",
		"version": "0.1.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"preview": h.orchestrator.Status(),
	})
}

// filesRequest is the editor's file-tree push
type filesRequest struct {
	Files []fileset.Node `json:"files" binding:"required"`
}

// SyncFiles accepts the full file tree and lets change sync decide what it
// costs: nothing, a hot remount, or a full boot sequence.
func (h *Handlers) SyncFiles(c *gin.Context) {
	var req filesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision := h.orchestrator.Sync(c.Request.Context(), req.Files)
	c.JSON(http.StatusAccepted, gin.H{
		"decision": decision,
		"status":   h.orchestrator.Status(),
	})
}

// GetStatus reports the preview session snapshot
func (h *Handlers) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.orchestrator.Status())
}

// Restart tears down the current preview and re-runs the boot sequence
// with the pushed file tree
func (h *Handlers) Restart(c *gin.Context) {
	var req filesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Detached from the request: the restart outlives this response
	go h.orchestrator.Restart(context.WithoutCancel(c.Request.Context()), req.Files)
	c.JSON(http.StatusAccepted, gin.H{"status": "restarting"})
}
