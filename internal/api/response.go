// Package api defines the JSON envelope shared by every HTTP handler.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"videotube_backend/internal/shared/apperror"
)

// Response is the success envelope.
type Response struct {
	Status  int    `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Success writes data inside the success envelope.
func Success(c *gin.Context, status int, data any, message string) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Response{Status: status, Data: data, Message: message})
}

// Error renders err inside the failure envelope.
// Errors outside the apperror taxonomy are reported as 500 without their cause.
func Error(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		slog.Error("unhandled error", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Status:  http.StatusInternalServerError,
			Message: "internal server error",
		})
		return
	}

	status := appErr.Kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "kind", appErr.Kind.String(), "error", err, "path", c.FullPath())
	} else {
		slog.Warn("request rejected", "kind", appErr.Kind.String(), "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
	}
	c.JSON(status, ErrorResponse{Status: status, Message: appErr.Message})
}

// Abort renders err like Error and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
