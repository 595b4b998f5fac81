package response

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the wire shape every endpoint answers with. Success responses
// carry data (and optionally a human message); failures carry an error string
// plus an optional machine code and details.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

func Success(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Error(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, Envelope{
		Success: false,
		Code:    code,
		Error:   message,
		Details: details,
	})
}
