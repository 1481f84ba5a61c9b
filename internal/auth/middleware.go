package auth

import (
	"strings"

	apperrors "codeberg.org/kinship/server/internal/errors"
	"codeberg.org/kinship/server/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	contextUserID    = "user_id"
	contextUserEmail = "user_email"
	contextPrincipal = "principal"

	msgTokenRequired = "Access token is required"
	msgTokenInvalid  = "Invalid or expired access token"
)

// verifies the bearer access token and attaches the principal to the context
func AuthMiddleware(verifier *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperrors.AuthenticationRequired(c, msgTokenRequired)
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			apperrors.Forbidden(c, msgTokenInvalid)
			return
		}

		if token == "" {
			apperrors.AuthenticationRequired(c, msgTokenRequired)
			return
		}

		claims, err := verifier.VerifyAccess(token)
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug("access token rejected", "reason", err.Error())
			apperrors.Forbidden(c, msgTokenInvalid)
			return
		}

		setPrincipal(c, Principal{ID: claims.UserID, Email: claims.Email})
		c.Next()
	}
}

// attaches the principal when a valid bearer token is present but never rejects
func OptionalAuthMiddleware(verifier *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if ok && token != "" {
			if claims, err := verifier.VerifyAccess(token); err == nil {
				setPrincipal(c, Principal{ID: claims.UserID, Email: claims.Email})
			}
		}

		c.Next()
	}
}

// extracts the principal attached by AuthMiddleware or OptionalAuthMiddleware
func GetPrincipal(c *gin.Context) (Principal, bool) {
	value, exists := c.Get(contextPrincipal)
	if !exists {
		return Principal{}, false
	}

	principal, ok := value.(Principal)
	return principal, ok
}

// extracts user_id from context after AuthMiddleware
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(contextUserID)
	return userID, userID != ""
}

func setPrincipal(c *gin.Context, principal Principal) {
	c.Set(contextPrincipal, principal)
	c.Set(contextUserID, principal.ID)
	c.Set(contextUserEmail, principal.Email)
}

// splits "Bearer <token>"; ok is false for any other scheme
func bearerToken(header string) (string, bool) {
	scheme, token, _ := strings.Cut(strings.TrimSpace(header), " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	return strings.TrimSpace(token), true
}
