// Package response holds the API error vocabulary and the gin helpers that
// emit it. Error payloads use the {"detail": "..."} shape so existing
// clients of the original service keep working unchanged.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the wire shape of every non-2xx response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// AppError carries an HTTP status alongside a human-readable message so
// services can decide the status without importing gin.
type AppError struct {
	HTTPStatus int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewBadRequest(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Message: msg}
}

func NewGatewayTimeout(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusGatewayTimeout, Message: msg}
}

func NewServerError(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Message: msg}
}

// Error sends an error response. *AppError picks its own status; anything
// else becomes a 500 with the raw error text in the detail field.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorBody{Detail: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorBody{Detail: err.Error()})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Detail: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, ErrorBody{Detail: msg})
}

func GatewayTimeout(c *gin.Context, msg string) {
	c.JSON(http.StatusGatewayTimeout, ErrorBody{Detail: msg})
}

func ServerError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, ErrorBody{Detail: msg})
}
