package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	authdomain "mail-calendar-agent/internal/auth/domain"
	"mail-calendar-agent/internal/auth/repository"
	emaildomain "mail-calendar-agent/internal/email/domain"
	emailrepo "mail-calendar-agent/internal/email/repository"
	"mail-calendar-agent/pkg/config"
	"mail-calendar-agent/pkg/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

type fixture struct {
	uc       AuthUsecase
	users    repository.UserRepository
	logs     emailrepo.AgentLogRepository
	refreshCalls int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		switch r.Form.Get("grant_type") {
		case "authorization_code":
			assert.Equal(t, "good-code", r.Form.Get("code"))
			_, _ = w.Write([]byte(`{"access_token":"at-new","refresh_token":"rt-new","token_type":"Bearer","expires_in":3600}`))
		case "refresh_token":
			f.refreshCalls++
			_, _ = w.Write([]byte(`{"access_token":"at-refreshed","token_type":"Bearer","expires_in":3600}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	mux.HandleFunc("/oauth2/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-new", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"user@example.com"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	db := dbtest.New(t, &authdomain.User{}, &emaildomain.AgentLog{})
	f.users = repository.NewUserRepository(db)
	f.logs = emailrepo.NewAgentLogRepository(db)

	conf := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:5000/auth/google/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{"email"},
	}
	cfg := &config.Config{JWTSecret: "test-secret", JWTAccessExpiry: time.Hour}
	f.uc = NewAuthUsecase(f.users, f.logs, conf, cfg, option.WithEndpoint(srv.URL+"/"))
	return f
}

func TestGetAuthURL(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.GetAuthURL()

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.State)

	u, err := url.Parse(resp.AuthURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, resp.State, q.Get("state"))
}

func TestHandleCallback(t *testing.T) {
	f := newFixture(t)
	auth, err := f.uc.GetAuthURL()
	require.NoError(t, err)

	result, err := f.uc.HandleCallback(context.Background(), "good-code", auth.State)

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", result.Email)

	email, err := f.uc.ValidateToken(result.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)

	user, err := f.users.FindByEmail("user@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "at-new", user.AccessToken)
	assert.Equal(t, "rt-new", user.RefreshToken)
	assert.NotNil(t, user.TokenExpiry)

	logs, err := f.logs.ListByUser("user@example.com", 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, emaildomain.ActionUserAuthenticated, logs[0].Action)
	assert.Equal(t, "OAuth flow completed", logs[0].Details)
}

func TestHandleCallbackRejectsBadState(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.HandleCallback(context.Background(), "good-code", "forged")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateIsNotASessionToken(t *testing.T) {
	f := newFixture(t)
	auth, err := f.uc.GetAuthURL()
	require.NoError(t, err)

	_, err = f.uc.ValidateToken(auth.State)
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	f := newFixture(t)

	status, err := f.uc.Status("ghost@example.com")
	require.NoError(t, err)
	assert.False(t, status.Authenticated)
	assert.False(t, status.HasTokens)
	assert.Nil(t, status.CreatedAt)

	_, err = f.users.Upsert(&authdomain.User{Email: "a@example.com", AccessToken: "at"})
	require.NoError(t, err)

	status, err = f.uc.Status("a@example.com")
	require.NoError(t, err)
	assert.True(t, status.Authenticated)
	assert.True(t, status.HasTokens)
	assert.NotNil(t, status.CreatedAt)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.uc.Logout("a@example.com"))

	logs, err := f.logs.ListByUser("a@example.com", 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, emaildomain.ActionUserLogout, logs[0].Action)
	assert.Equal(t, "User logged out", logs[0].Details)
}

func TestResolveTokenUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.ResolveToken(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotAuthenticated)
}

func TestResolveTokenValid(t *testing.T) {
	f := newFixture(t)
	expiry := time.Now().Add(time.Hour)
	_, err := f.users.Upsert(&authdomain.User{Email: "a@example.com", AccessToken: "at", RefreshToken: "rt", TokenExpiry: &expiry})
	require.NoError(t, err)

	tok, err := f.uc.ResolveToken(context.Background(), "a@example.com")

	require.NoError(t, err)
	assert.Equal(t, "at", tok.AccessToken)
	assert.Equal(t, 0, f.refreshCalls)
}

func TestResolveTokenRefreshesAndPersists(t *testing.T) {
	f := newFixture(t)
	expired := time.Now().Add(-time.Hour)
	_, err := f.users.Upsert(&authdomain.User{Email: "a@example.com", AccessToken: "old", RefreshToken: "rt", TokenExpiry: &expired})
	require.NoError(t, err)

	tok, err := f.uc.ResolveToken(context.Background(), "a@example.com")

	require.NoError(t, err)
	assert.Equal(t, "at-refreshed", tok.AccessToken)
	assert.Equal(t, 1, f.refreshCalls)

	user, err := f.users.FindByEmail("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "at-refreshed", user.AccessToken)
	assert.Equal(t, "rt", user.RefreshToken)
	require.NotNil(t, user.TokenExpiry)
	assert.True(t, user.TokenExpiry.After(time.Now()))
}

func TestResolveTokenExpiredWithoutRefreshToken(t *testing.T) {
	f := newFixture(t)
	expired := time.Now().Add(-time.Hour)
	_, err := f.users.Upsert(&authdomain.User{Email: "a@example.com", AccessToken: "old", TokenExpiry: &expired})
	require.NoError(t, err)

	_, err = f.uc.ResolveToken(context.Background(), "a@example.com")
	assert.ErrorIs(t, err, ErrUserNotAuthenticated)
}
