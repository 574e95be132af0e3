// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const pingTimeout = 2 * time.Second

// Pinger checks that a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves /healthz.
type HealthHandler struct {
	pingers map[string]Pinger
}

// NewHealthHandler creates a HealthHandler checking each named pinger. Nil pingers are skipped.
func NewHealthHandler(pingers map[string]Pinger) *HealthHandler {
	active := make(map[string]Pinger, len(pingers))
	for name, p := range pingers {
		if p != nil {
			active[name] = p
		}
	}
	return &HealthHandler{pingers: active}
}

// Health responds according to the HTTP method and never lets the response be cached.
// GET and other methods report 503 when a dependency is unreachable.
func (h *HealthHandler) Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
		return
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	for name, p := range h.pingers {
		if err := p.Ping(ctx); err != nil {
			slog.Error("health check failed", "dependency", name, "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "dependency": name})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
