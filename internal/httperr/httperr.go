package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/mood-journal/internal/domain/account"
	"github.com/BruksfildServices01/mood-journal/internal/domain/journal"
)

type HTTPError struct {
	Code    string              `json:"error_code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

// Validation writes a 400 with per-field messages.
func Validation(c *gin.Context, fields map[string][]string) {
	c.JSON(http.StatusBadRequest, HTTPError{
		Code:    "invalid_request",
		Message: "Invalid data.",
		Fields:  fields,
	})
}

// FromError maps domain and business errors to a response. Anything it does
// not recognise is reported as an opaque 500 and recorded on the context for
// the request logger.
func FromError(c *gin.Context, err error) {
	var verr *journal.ValidationError
	switch {
	case errors.As(err, &verr):
		Validation(c, verr.Fields)
	case errors.Is(err, journal.ErrNotFound):
		NotFound(c, "log_not_found", "Not found.")
	case errors.Is(err, journal.ErrUnauthenticated):
		Unauthorized(c, "not_authenticated", "Authentication credentials were not provided.")
	case IsBusiness(err, CodeUsernameTaken):
		Conflict(c, CodeUsernameTaken, "A user with that username already exists.")
	case IsBusiness(err, CodeInvalidCredentials):
		Unauthorized(c, CodeInvalidCredentials, "Unable to log in with provided credentials.")
	case IsBusiness(err, CodeForbidden):
		Forbidden(c, CodeForbidden, "You do not have permission to perform this action.")
	case errors.Is(err, account.ErrNotFound):
		NotFound(c, "user_not_found", "Not found.")
	default:
		_ = c.Error(err)
		Internal(c, "internal_error", "A server error occurred.")
	}
}
