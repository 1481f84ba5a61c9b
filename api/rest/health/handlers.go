package health

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/kinship/server/internal/errors"
	"codeberg.org/kinship/server/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	serviceName  = "kinship"
	readyTimeout = 2 * time.Second
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Handler godoc
// @Summary Liveness
// @Description Returns the server health status
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func Handler(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Status:  "healthy",
		Service: serviceName,
		Version: Version,
	})
}

// APIHandler godoc
// @Summary API health
// @Description Returns the API status with the running environment and server time
// @Tags health
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/health [get]
func APIHandler(environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, APIResponse{
			Status:      "OK",
			Message:     "Kinship API is running",
			Environment: environment,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}

// ReadyHandler godoc
// @Summary Readiness
// @Description Returns 200 once the user store and other dependencies answer a ping
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} errors.ErrorResponse
// @Router /ready [get]
func ReadyHandler(deps ...Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		for _, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				logger.Warn("readiness check failed", "error", err.Error())
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, errors.ErrorResponse{
					Success: false,
					Error:   "Service unavailable",
					Message: "dependencies are not reachable",
				})
				return
			}
		}

		c.JSON(http.StatusOK, Response{
			Status:  "ready",
			Service: serviceName,
			Version: Version,
		})
	}
}
