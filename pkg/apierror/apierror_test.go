package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"mail-calendar-agent/pkg/gmail"
	"mail-calendar-agent/pkg/googleauth"
	"mail-calendar-agent/pkg/googleerr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func apiErr(code int) error {
	return googleerr.Wrap("gmail", "get message m1", &googleapi.Error{Code: code})
}

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not authenticated", googleauth.ErrUserNotAuthenticated, http.StatusUnauthorized},
		{"wrapped not authenticated", fmt.Errorf("agent processing failed: %w", googleauth.ErrUserNotAuthenticated), http.StatusUnauthorized},
		{"refresh token missing", googleauth.ErrRefreshTokenMissing, http.StatusUnauthorized},
		{"invalid time range", gmail.ValidateTimeRange("1d OR in:spam"), http.StatusBadRequest},
		{"google 401", apiErr(http.StatusUnauthorized), http.StatusUnauthorized},
		{"google 403", apiErr(http.StatusForbidden), http.StatusForbidden},
		{"google 404", apiErr(http.StatusNotFound), http.StatusNotFound},
		{"google 410", apiErr(http.StatusGone), http.StatusNotFound},
		{"google 429", apiErr(http.StatusTooManyRequests), http.StatusTooManyRequests},
		{"google 503", apiErr(http.StatusServiceUnavailable), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusCode(tc.err))
		})
	}
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, "Failed to get email details", apiErr(http.StatusNotFound))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error":true`)
	assert.Contains(t, w.Body.String(), `"message":"Failed to get email details"`)
	assert.Contains(t, w.Body.String(), `"details":"gmail: unable to get message m1`)
}
