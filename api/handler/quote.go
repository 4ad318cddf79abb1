package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/goldrate/cache"
	"github.com/use-agent/goldrate/models"
	"github.com/use-agent/goldrate/runner"
)

// Quote returns a handler for GET /api/v1/quote.
//
// Flow:
//  1. Parse max_age_ms (0 or absent disables the cache).
//  2. Serve a fresh enough cached response if one exists.
//  3. Otherwise fetch through fetch, store successful responses, and respond.
//
// fetch is expected to be a Gate's Quote so misses share one browser.
func Quote(fetch runner.QuoteFunc, cc *cache.Cache, cacheKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		maxAge := 0
		if raw := c.Query("max_age_ms"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, models.QuoteResponse{
					Success: false,
					Error: &models.ErrorDetail{
						Code:    models.ErrCodeInvalidInput,
						Message: "max_age_ms must be a non-negative integer",
					},
				})
				return
			}
			maxAge = n
		}

		if cc != nil && maxAge > 0 {
			if cached, hit := cc.Get(cacheKey, maxAge); hit {
				cached.CacheStatus = "hit"
				cached.FetchMs = time.Since(start).Milliseconds()
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		resp := fetch(c.Request.Context())
		if !resp.Success {
			c.JSON(mapErrorToStatus(resp.Error), resp)
			return
		}

		if cc != nil && maxAge > 0 {
			cc.Set(cacheKey, resp)
			resp.CacheStatus = "miss"
		}
		c.JSON(http.StatusOK, resp)
	}
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ErrorDetail) int {
	if e == nil {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation, models.ErrCodeHTTPFetch, models.ErrCodeExtraction:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeBrowserLaunch:
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}
