package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/roozanaryal/TwitterClone-sub000/internal/engagement"
	"github.com/roozanaryal/TwitterClone-sub000/internal/logger"
	"github.com/roozanaryal/TwitterClone-sub000/internal/notifications"
	"github.com/roozanaryal/TwitterClone-sub000/internal/timeline"
	"go.uber.org/zap"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	engagement *engagement.Service
	timeline   *timeline.Assembler
	inbox      *notifications.Inbox
	checks     map[string]HealthCheck
}

// NewHandlers creates a new handlers instance
func NewHandlers(svc *engagement.Service, assembler *timeline.Assembler, inbox *notifications.Inbox) *Handlers {
	return &Handlers{
		engagement: svc,
		timeline:   assembler,
		inbox:      inbox,
		checks:     map[string]HealthCheck{},
	}
}

// SetHealthCheck registers a dependency check for /health.
func (h *Handlers) SetHealthCheck(name string, check HealthCheck) {
	h.checks[name] = check
}

// Health reports the state of every registered dependency.
// GET /health
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.WarnWithFields("health check failed", err, zap.String("dependency", name))
			deps[name] = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status":       state,
		"dependencies": deps,
		"timestamp":    time.Now().UTC(),
	})
}
