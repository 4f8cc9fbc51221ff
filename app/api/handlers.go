package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/ilias-herald/app/catalog"
	"github.com/lysyi3m/ilias-herald/app/tasks"
)

func NewHandler(scheduler tasks.TaskSchedulerInterface, state DebugState, store StoreSizer,
	c *catalog.Catalog, feedURL, version string) *Handler {
	return &Handler{
		scheduler: scheduler,
		state:     state,
		store:     store,
		catalog:   c,
		feedURL:   feedURL,
		version:   version,
		startedAt: time.Now(),
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	subjects, statuses, fileTypes := h.catalog.Counts()

	c.JSON(http.StatusOK, gin.H{
		"feed_url":      h.feedURL,
		"store_entries": h.store.StoreSize(),
		"debug_mode":    h.state.DebugMode(),
		"tasks":         h.scheduler.Stats(),
		"tables": gin.H{
			"subjects":   subjects,
			"statuses":   statuses,
			"file_types": fileTypes,
		},
	})
}

func (h *Handler) APIReload(c *gin.Context) {
	if err := h.scheduler.EnqueueReload(tasks.TriggerAPI); err != nil {
		slog.Error("Error enqueueing reload task", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue reload task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Reload task enqueued",
		"type":    tasks.TaskTypeReloadFeed,
	})
}

func (h *Handler) APICleanup(c *gin.Context) {
	if err := h.scheduler.EnqueueCleanup(tasks.TriggerAPI); err != nil {
		slog.Error("Error enqueueing cleanup task", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue cleanup task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Cleanup task enqueued",
		"type":    tasks.TaskTypeCleanupStore,
	})
}

func (h *Handler) APIGetDebugMode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"debug_mode": h.state.DebugMode()})
}

func (h *Handler) APIToggleDebugMode(c *gin.Context) {
	enabled, err := h.state.ToggleDebugMode()
	if err != nil {
		slog.Error("Error toggling debug mode", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save debug mode",
			"details": err.Error(),
		})
		return
	}

	slog.Info("Debug mode toggled", "enabled", enabled, "source", "api")
	c.JSON(http.StatusOK, gin.H{"debug_mode": enabled})
}
