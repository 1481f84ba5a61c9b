// Package response writes the JSON success envelope shared by every REST handler.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every successful response
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// responds 200 with data wrapped in the success envelope
func OK(c *gin.Context, data any, message string) {
	write(c, http.StatusOK, data, message)
}

// responds 201 with data wrapped in the success envelope
func Created(c *gin.Context, data any, message string) {
	write(c, http.StatusCreated, data, message)
}

func write(c *gin.Context, status int, data any, message string) {
	if data == nil {
		data = gin.H{}
	}

	c.JSON(status, Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}
