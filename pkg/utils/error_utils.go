package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// InternalErrorMessage is the body message of every unhandled failure.
const InternalErrorMessage = "Erro interno"

// APIError is the standardized error body. Message is always present.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError instance
func NewAPIError(statusCode int, code string, message string, details string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

// RespondWithError sends a standardized JSON error response and aborts the chain.
func RespondWithError(c *gin.Context, err *APIError) {
	c.AbortWithStatusJSON(err.StatusCode, err)
}

// RespondInternalError logs err and answers with the generic 500 body.
func RespondInternalError(c *gin.Context, err error, logMessage string) {
	LogError(err, logMessage)
	RespondWithError(c, NewAPIError(http.StatusInternalServerError, ErrCodeInternalServerError, InternalErrorMessage, ""))
}

// Common error codes
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
)

// RespondValidationFailed returns a 400 with the validation details attached.
func RespondValidationFailed(c *gin.Context, message, details string) {
	RespondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeValidationFailed, message, details))
}
