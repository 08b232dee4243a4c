package httperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Message string            `json:"error"`
	Code    string            `json:"error_code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict, KindNoBoxAvailable, KindInvalidTransition:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden, KindBlockedCustomer:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Respond renders err. Errors outside the taxonomy are logged and reported
// as internal errors.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		msg := be.Message
		if msg == "" {
			msg = be.Code
		}
		c.JSON(StatusOf(be.Kind), HTTPError{
			Code:    be.Code,
			Message: msg,
			Fields:  be.Fields,
		})
		return
	}

	slog.ErrorContext(c.Request.Context(), "unhandled error",
		"error", err,
		"path", c.FullPath(),
		"method", c.Request.Method,
	)
	Internal(c, "internal_error", "Internal server error.")
}
