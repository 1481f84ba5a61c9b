package main

import (
	"net/http"
	"time"

	"codeberg.org/kinship/server/api/rest/auth"
	"codeberg.org/kinship/server/api/rest/health"
	"codeberg.org/kinship/server/internal/errors"
	"codeberg.org/kinship/server/internal/logger"
	"codeberg.org/kinship/server/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"

	_ "codeberg.org/kinship/server/docs" // registers the OpenAPI document
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(logger.Middleware())
	router.Use(gin.CustomRecovery(errors.Recovery))
	router.Use(CORSMiddleware(server.config.CORSOrigins))
	router.Use(server.metrics.Middleware())

	router.GET("/health", health.Handler)
	router.GET("/ready", health.ReadyHandler(server.pingers()...))
	router.GET("/metrics", gin.WrapH(metrics.Handler(server.registry)))
	router.GET("/swagger/doc.json", SwaggerHandler)

	api := router.Group("/api")

	{
		api.GET("/health", health.APIHandler(server.config.Environment))
		api.GET("/ping", health.PingHandler)

		auth.RegisterRoutes(api, server.auth, server.verifier, server.limiter.Middleware(), server.metrics)
	}
}

// allows the configured browser origins to call the API with bearer tokens
func CORSMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// serves the registered OpenAPI document
func SwaggerHandler(c *gin.Context) {
	doc, err := swag.ReadDoc()
	if err != nil {
		errors.InternalError(c, "failed to read api documentation", err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}

func (s *Server) pingers() []health.Pinger {
	pingers := []health.Pinger{s.store}

	if s.redis != nil {
		pingers = append(pingers, redisPinger{s.redis})
	}

	return pingers
}
