package errors

import (
	"errors"
	"net/http"

	"codeberg.org/kinship/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// Error Handling Guidelines:
//
// For HTTP REST handlers:
//   - Use errors.Respond() for anything a service returned; it maps the Kind to a status
//   - Use errors.InternalError(), errors.BadRequest(), etc. when the handler itself fails
//     These functions handle both logging and HTTP response automatically
//   - Use logger.ErrorErr() only for non-critical errors where processing continues
//   - Never call both logger.ErrorErr() and errors.InternalError() for the same error
//
// For services/repositories/internal packages:
//   - Return *errors.Error for expected failures (validation, bad credentials, conflicts)
//   - Return wrapped errors with context using fmt.Errorf("context: %w", err) otherwise
//   - Do not log errors in non-handler code (avoid double logging)

// stable error labels
const (
	LabelValidation      = "Validation error"
	LabelAuthRequired    = "Authentication required"
	LabelAuthFailed      = "Authentication failed"
	LabelConflict        = "Conflict"
	LabelNotFound        = "Not found"
	LabelTooManyRequests = "Too many requests"
	LabelServerError     = "Internal server error"
)

// creates a validation failure
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// creates an authentication failure
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// creates a conflict failure
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// creates a not found failure
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// wraps an unexpected failure
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// returns the kind of err, KindInternal for anything that is not an *Error
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	return KindInternal
}

// writes the JSON error body matching the error's kind
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		InternalError(c, "", err)
		return
	}

	switch appErr.Kind {
	case KindValidation:
		ValidationError(c, appErr.Message)
	case KindAuthentication:
		Unauthorized(c, appErr.Message)
	case KindConflict:
		ConflictError(c, appErr.Message)
	case KindNotFound:
		NotFoundError(c, appErr.Message)
	default:
		InternalError(c, appErr.Message, err)
	}
}

// returns a 401 when no credential was presented
func AuthenticationRequired(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}

	abort(c, http.StatusUnauthorized, LabelAuthRequired, message)
}

// returns a 401 unauthorized error
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication failed"
	}

	abort(c, http.StatusUnauthorized, LabelAuthFailed, message)
}

// returns a 403 forbidden error
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "permission denied"
	}

	abort(c, http.StatusForbidden, LabelAuthFailed, message)
}

// returns a 404 not found error
func NotFoundError(c *gin.Context, message string) {
	if message == "" {
		message = "resource not found"
	}

	abort(c, http.StatusNotFound, LabelNotFound, message)
}

// returns a 400 bad request error for a body that could not be decoded
func BadRequest(c *gin.Context, message string, err error) {
	if message == "" {
		message = "invalid request"
	}

	if err != nil {
		logger.Debug("rejected request body",
			"path", c.Request.URL.Path,
			"detail", sanitizeError(err),
		)
	}

	abort(c, http.StatusBadRequest, LabelValidation, message)
}

// returns a 400 bad request error for validation failures
func ValidationError(c *gin.Context, message string) {
	if message == "" {
		message = "validation failed"
	}

	abort(c, http.StatusBadRequest, LabelValidation, message)
}

// returns a 500 internal server error
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	info := classifyError(err)

	// log full error server-side with context
	logger.ErrorErr(err, message,
		"category", info.category,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"user_id", c.GetString("user_id"),
	)

	// the cause never reaches the client
	abort(c, http.StatusInternalServerError, LabelServerError, message)
}

// returns a 409 conflict error
func ConflictError(c *gin.Context, message string) {
	if message == "" {
		message = "resource conflict"
	}

	abort(c, http.StatusConflict, LabelConflict, message)
}

// returns a 429 too many requests error
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "too many requests, please slow down"
	}

	abort(c, http.StatusTooManyRequests, LabelTooManyRequests, message)
}

// recovery handler for gin.CustomRecovery
func Recovery(c *gin.Context, recovered any) {
	logger.Error("panic recovered",
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"panic", recovered,
	)

	abort(c, http.StatusInternalServerError, LabelServerError, "an unexpected error occurred")
}

func abort(c *gin.Context, status int, label, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error:   label,
		Message: message,
	})
}
