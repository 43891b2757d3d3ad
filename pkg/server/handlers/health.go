package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/planetdyn/shtk"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests
type HealthHandler struct {
	toolkit shtk.Toolkit
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(tk shtk.Toolkit) *HealthHandler {
	return &HealthHandler{toolkit: tk}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "shtk",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// LivenessCheck handles GET /live
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles GET /ready. The server is ready once the
// toolkit answers queries.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	if h.toolkit == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  "toolkit not initialized",
		})
		return
	}

	models := h.toolkit.ListModels(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"service":   "shtk",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"models":    len(models),
	})
}

// DetailedHealthCheck handles GET /health/detailed
func (h *HealthHandler) DetailedHealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := gin.H{
		"status":    "healthy",
		"service":   "shtk",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"build": gin.H{
			"version":    Version,
			"git_commit": GitCommit,
			"build_time": BuildTime,
			"go_version": GoVersion,
		},
		"runtime": gin.H{
			"goroutines":     runtime.NumGoroutine(),
			"heap_alloc_mb":  m.HeapAlloc / 1024 / 1024,
			"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
		},
	}
	if h.toolkit != nil {
		response["models"] = h.toolkit.ListModels(c.Request.Context())
	}
	c.JSON(http.StatusOK, response)
}
