package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/goldrate/models"
	"github.com/use-agent/goldrate/runner"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
//
// Status degrades when the most recent run ended exhausted.
func Health(gate *runner.Gate, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		last := gate.Last()

		status := "healthy"
		if last != nil && last.State == models.StateExhausted {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: Version,
			LastRun: last,
		})
	}
}
