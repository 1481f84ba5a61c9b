package auth

import (
	"codeberg.org/kinship/server/internal/auth"
	"codeberg.org/kinship/server/internal/metrics"
	"github.com/gin-gonic/gin"
)

// registers all authentication routes; rateLimit guards register and login and may be nil
func RegisterRoutes(router *gin.RouterGroup, svc Service, verifier *auth.TokenVerifier, rateLimit gin.HandlerFunc, m *metrics.Metrics) {
	credentials := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if rateLimit == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{rateLimit, h}
	}

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", credentials(RegisterHandler(svc, m))...)
		authGroup.POST("/login", credentials(LoginHandler(svc, m))...)
		authGroup.POST("/refresh-token", RefreshTokenHandler(svc, m))
		authGroup.POST("/logout", auth.OptionalAuthMiddleware(verifier), LogoutHandler(m))
		authGroup.GET("/me", auth.AuthMiddleware(verifier), GetCurrentUserHandler(svc))
	}
}
