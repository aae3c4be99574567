// Package apierror turns usecase and Google API errors into HTTP responses.
package apierror

import (
	"errors"
	"net/http"

	"mail-calendar-agent/pkg/gmail"
	"mail-calendar-agent/pkg/googleauth"
	"mail-calendar-agent/pkg/googleerr"

	"github.com/gin-gonic/gin"
)

// StatusCode picks the response status for err. Unclassified errors are 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, googleauth.ErrUserNotAuthenticated), errors.Is(err, googleauth.ErrRefreshTokenMissing):
		return http.StatusUnauthorized
	case errors.Is(err, gmail.ErrInvalidTimeRange):
		return http.StatusBadRequest
	}

	switch googleerr.Classify(err) {
	case googleerr.KindUnauthorized:
		return http.StatusUnauthorized
	case googleerr.KindForbidden:
		return http.StatusForbidden
	case googleerr.KindNotFound:
		return http.StatusNotFound
	case googleerr.KindRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// Respond writes the standard error body with the status derived from err.
func Respond(c *gin.Context, message string, err error) {
	c.JSON(StatusCode(err), gin.H{
		"error":   true,
		"message": message,
		"details": err.Error(),
	})
}
