package delivery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	authdto "mail-calendar-agent/internal/auth/dto"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeAuth struct {
	callbackErr error
	loggedOut   string
}

func (f *fakeAuth) GetAuthURL() (*authdto.AuthURLResponse, error) {
	return &authdto.AuthURLResponse{Success: true, AuthURL: "https://accounts.example/auth", State: "s"}, nil
}

func (f *fakeAuth) HandleCallback(ctx context.Context, code, state string) (*authdto.CallbackResult, error) {
	if f.callbackErr != nil {
		return nil, f.callbackErr
	}
	return &authdto.CallbackResult{Email: "a+b@example.com", SessionToken: "jwt"}, nil
}

func (f *fakeAuth) Status(email string) (*authdto.StatusResponse, error) {
	return &authdto.StatusResponse{Email: email}, nil
}

func (f *fakeAuth) Logout(email string) error {
	f.loggedOut = email
	return nil
}

func (f *fakeAuth) ResolveToken(ctx context.Context, email string) (*oauth2.Token, error) {
	return nil, errors.New("not used")
}

func (f *fakeAuth) ValidateToken(tokenString string) (string, error) {
	if tokenString == "good" {
		return "a@example.com", nil
	}
	return "", errors.New("invalid token")
}

func newRouter(f *fakeAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAuthHandler(f, "http://front.test").RegisterRoutes(r.Group("/auth"))
	return r
}

func TestLogin(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(&fakeAuth{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "https://accounts.example/auth", body["authUrl"])
}

func TestCallbackSuccessRedirect(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(&fakeAuth{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=c&state=s", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "front.test", loc.Host)
	assert.Equal(t, "success", loc.Query().Get("auth"))
	assert.Equal(t, "a+b@example.com", loc.Query().Get("email"))
	assert.Equal(t, "jwt", loc.Query().Get("token"))
}

func TestCallbackProviderError(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(&fakeAuth{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/callback?error=access_denied", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://front.test?error=access_denied", w.Header().Get("Location"))
}

func TestCallbackMissingCode(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(&fakeAuth{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallbackExchangeFailure(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(&fakeAuth{callbackErr: errors.New("boom")}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=c", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://front.test?error=auth_failed", w.Header().Get("Location"))
}

func TestLogoutHandler(t *testing.T) {
	f := &fakeAuth{}
	w := httptest.NewRecorder()
	newRouter(f).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout/a@example.com", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged out successfully")
	assert.Equal(t, "a@example.com", f.loggedOut)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api", AuthMiddleware(&fakeAuth{}, true))
	g.GET("/things/:email", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("email"))
	})

	cases := []struct {
		path   string
		header string
		code   int
	}{
		{"/api/things/a@example.com", "", http.StatusUnauthorized},
		{"/api/things/a@example.com", "Token good", http.StatusUnauthorized},
		{"/api/things/a@example.com", "Bearer bad", http.StatusUnauthorized},
		{"/api/things/b@example.com", "Bearer good", http.StatusForbidden},
		{"/api/things/a@example.com", "Bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.code, w.Code, tc.path+" "+tc.header)
	}
}

func TestAuthMiddlewareDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x/:email", AuthMiddleware(&fakeAuth{}, false), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x/a@example.com", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}
