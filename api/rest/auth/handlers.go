package auth

import (
	stderrors "errors"
	"io"

	"codeberg.org/kinship/server/internal/auth"
	"codeberg.org/kinship/server/internal/errors"
	"codeberg.org/kinship/server/internal/logger"
	"codeberg.org/kinship/server/internal/metrics"
	"codeberg.org/kinship/server/internal/response"
	"github.com/gin-gonic/gin"
)

// RegisterHandler godoc
// @Summary Register
// @Description Create an account with email and password. Returns the user and a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/auth/register [post]
func RegisterHandler(svc Service, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if !bindJSON(c, &req) {
			return
		}

		user, err := svc.Register(c.Request.Context(), auth.RegistrationRequest{
			Email:           req.Email,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
			FirstName:       req.FirstName,
			LastName:        req.LastName,
		})

		m.RecordAuthEvent("register", outcome(err))

		if err != nil {
			errors.Respond(c, err)
			return
		}

		tokens, err := svc.GenerateTokens(user)
		if err != nil {
			errors.Respond(c, err)
			return
		}

		logger.FromContext(c.Request.Context()).Info("user registered", "user_id", user.ID)

		response.Created(c, AuthData{
			User:         user,
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
		}, "User registered successfully")
	}
}

// LoginHandler godoc
// @Summary Login
// @Description Exchange email and password for the user and a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/auth/login [post]
func LoginHandler(svc Service, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if !bindJSON(c, &req) {
			return
		}

		user, err := svc.Login(c.Request.Context(), auth.Credentials{
			Email:    req.Email,
			Password: req.Password,
		})

		m.RecordAuthEvent("login", outcome(err))

		if err != nil {
			errors.Respond(c, err)
			return
		}

		tokens, err := svc.GenerateTokens(user)
		if err != nil {
			errors.Respond(c, err)
			return
		}

		logger.FromContext(c.Request.Context()).Info("user logged in", "user_id", user.ID)

		response.OK(c, AuthData{
			User:         user,
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
		}, "Login successful")
	}
}

// RefreshTokenHandler godoc
// @Summary Refresh tokens
// @Description Exchange a valid refresh token for a new token pair. The presented token is not revoked
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/auth/refresh-token [post]
func RefreshTokenHandler(svc Service, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if !bindJSON(c, &req) {
			return
		}

		if req.RefreshToken == "" {
			m.RecordAuthEvent("refresh", metrics.OutcomeFailure)
			errors.ValidationError(c, "Refresh token is required")
			return
		}

		tokens, err := svc.Refresh(c.Request.Context(), req.RefreshToken)

		m.RecordAuthEvent("refresh", outcome(err))

		if err != nil {
			errors.Respond(c, err)
			return
		}

		response.OK(c, tokens, "Tokens refreshed successfully")
	}
}

// LogoutHandler godoc
// @Summary Logout
// @Description Always succeeds. Tokens are stateless and stay valid until they expire; clients discard them
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /api/auth/logout [post]
func LogoutHandler(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, ok := auth.GetPrincipal(c); ok {
			logger.FromContext(c.Request.Context()).Info("user logged out", "user_id", principal.ID)
		}

		m.RecordAuthEvent("logout", metrics.OutcomeSuccess)

		response.OK(c, nil, "Logout successful")
	}
}

// GetCurrentUserHandler godoc
// @Summary Get current user
// @Description Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/auth/me [get]
// @Security BearerAuth
func GetCurrentUserHandler(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, exists := auth.GetPrincipal(c)
		if !exists {
			errors.AuthenticationRequired(c, "Access token is required")
			return
		}

		user, err := svc.CurrentUser(c.Request.Context(), principal)
		if err != nil {
			errors.Respond(c, err)
			return
		}

		response.OK(c, UserData{User: user}, "")
	}
}

// decodes the JSON body into dst; an empty body decodes as {}
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !stderrors.Is(err, io.EOF) {
		errors.BadRequest(c, "Invalid request body", err)
		return false
	}

	return true
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.KindOf(err) == errors.KindInternal:
		return metrics.OutcomeError
	default:
		return metrics.OutcomeFailure
	}
}
