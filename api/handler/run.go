package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/goldrate/models"
	"github.com/use-agent/goldrate/runner"
)

// Run returns a handler for POST /api/v1/run.
//
// The run sends its own notifications; the response carries the report.
// An exhausted run is still a completed request, so the status stays 200
// and Success mirrors the final state. A run is refused with 409 while the
// browser is busy with another run or a quote fetch.
func Run(gate *runner.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, ok := gate.Trigger(c.Request.Context())
		if !ok {
			c.JSON(http.StatusConflict, models.RunResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeRunInProgress,
					Message: "a run is already in progress",
				},
			})
			return
		}

		c.JSON(http.StatusOK, models.RunResponse{
			Success: report.State == models.StateSuccess,
			Report:  report,
		})
	}
}
