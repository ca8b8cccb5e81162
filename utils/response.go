package utils

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the JSON shape of every API response
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSONResponse sends a structured JSON response
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// JSONError sends a structured error response. reason is a stable code the UI keys its banner on.
func JSONError(c *gin.Context, status int, err error, reason, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Status:  status,
		Message: message,
		Reason:  reason,
		Error:   err.Error(),
	})
}
