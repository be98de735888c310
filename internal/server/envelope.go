package server

import (
	"github.com/gin-gonic/gin"
)

// ErrorDetail describes one error in the standardized envelope.
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Envelope is the normalized response shape for every API route. Success
// responses carry Data; error responses carry Error and optionally Errors.
type Envelope struct {
	Success    bool          `json:"success"`
	Data       any           `json:"data,omitempty"`
	Message    string        `json:"message,omitempty"`
	Error      *ErrorDetail  `json:"error,omitempty"`
	Errors     []ErrorDetail `json:"errors,omitempty"`
	StatusCode int           `json:"status_code"`
}

func respondSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{
		Success:    true,
		Data:       data,
		Message:    "success",
		StatusCode: status,
	})
}

func respondError(c *gin.Context, status int, code, message string, details []ErrorDetail) {
	c.JSON(status, Envelope{
		Success:    false,
		Error:      &ErrorDetail{Code: code, Message: message},
		Errors:     details,
		StatusCode: status,
	})
}
