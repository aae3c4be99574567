package googleauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mail-calendar-agent/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTokenServer(t *testing.T, body string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL, AuthURL: "https://accounts.example.com/auth"},
	}
}

func TestRefreshIfExpiredKeepsValidToken(t *testing.T) {
	srv, calls := newTokenServer(t, `{}`)
	tok := &oauth2.Token{AccessToken: "still-good", RefreshToken: "r", Expiry: time.Now().Add(time.Hour)}

	got, refreshed, err := RefreshIfExpired(context.Background(), testConfig(srv.URL), tok)

	require.NoError(t, err)
	assert.False(t, refreshed)
	assert.Same(t, tok, got)
	assert.Zero(t, *calls)
}

func TestRefreshIfExpiredRefreshes(t *testing.T) {
	srv, calls := newTokenServer(t, `{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`)
	tok := &oauth2.Token{AccessToken: "old", RefreshToken: "refresh-1", Expiry: time.Now().Add(-time.Minute)}

	got, refreshed, err := RefreshIfExpired(context.Background(), testConfig(srv.URL), tok)

	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.Equal(t, "fresh", got.AccessToken)
	assert.Equal(t, "refresh-1", got.RefreshToken)
	assert.True(t, got.Expiry.After(time.Now()))
	assert.Equal(t, 1, *calls)
}

func TestRefreshIfExpiredWithoutRefreshToken(t *testing.T) {
	tok := &oauth2.Token{AccessToken: "old", Expiry: time.Now().Add(-time.Minute)}

	_, _, err := RefreshIfExpired(context.Background(), testConfig("http://unused"), tok)

	assert.ErrorIs(t, err, ErrRefreshTokenMissing)
}

func TestNewOAuthConfigFromEnv(t *testing.T) {
	conf, err := NewOAuthConfig(&config.Config{
		GoogleClientID:     "id",
		GoogleClientSecret: "secret",
		GoogleRedirectURI:  "http://localhost:5000/auth/google/callback",
	})
	require.NoError(t, err)
	assert.Equal(t, "id", conf.ClientID)
	assert.Equal(t, Scopes, conf.Scopes)

	_, err = NewOAuthConfig(&config.Config{})
	assert.Error(t, err)
}

func TestNewOAuthConfigFromCredentialsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	creds := `{"installed":{"client_id":"file-id","client_secret":"file-secret","redirect_uris":["http://localhost"],"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token"}}`
	require.NoError(t, os.WriteFile(path, []byte(creds), 0o600))

	conf, err := NewOAuthConfig(&config.Config{GoogleCredentialsPath: path, GoogleRedirectURI: "http://localhost:5000/cb"})
	require.NoError(t, err)
	assert.Equal(t, "file-id", conf.ClientID)
	assert.Equal(t, "http://localhost:5000/cb", conf.RedirectURL)
}

func TestAuthCodeURLRequestsOfflineConsent(t *testing.T) {
	raw := AuthCodeURL(testConfig("http://unused"), "state-1")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "state-1", q.Get("state"))
}
