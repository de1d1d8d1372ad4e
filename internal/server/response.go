package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the body of every error response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps an APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Error codes.
const (
	CodeBadRequest    = "bad_request"
	CodeNotFound      = "not_found"
	CodeUnknownFormat = "unknown_format"
	CodeInternal      = "internal"
)

func respondError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		} else {
			msg = err.Error()
		}
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{Message: msg, Code: code},
	})
}
