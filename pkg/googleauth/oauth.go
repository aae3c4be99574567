package googleauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"mail-calendar-agent/pkg/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"
	oauth2api "google.golang.org/api/oauth2/v2"
)

// Scopes requested during authorization.
var Scopes = []string{
	gmail.GmailReadonlyScope,
	calendar.CalendarScope,
	oauth2api.UserinfoEmailScope,
}

var (
	ErrUserNotAuthenticated = errors.New("user not authenticated")
	ErrRefreshTokenMissing  = errors.New("access token expired and no refresh token is stored")
)

// NewOAuthConfig builds the OAuth client configuration either from a
// credentials.json file (installed or web) or from the client id/secret env vars.
func NewOAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	if cfg.GoogleCredentialsPath != "" {
		data, err := os.ReadFile(cfg.GoogleCredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read Google credentials file %s: %w", cfg.GoogleCredentialsPath, err)
		}
		conf, err := google.ConfigFromJSON(data, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("unable to parse Google credentials file: %w", err)
		}
		if cfg.GoogleRedirectURI != "" {
			conf.RedirectURL = cfg.GoogleRedirectURI
		}
		return conf, nil
	}

	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return nil, errors.New("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required")
	}

	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURI,
		Scopes:       Scopes,
		Endpoint:     google.Endpoint,
	}, nil
}

// AuthCodeURL asks for offline access and forces the consent screen so a
// refresh token is always returned.
func AuthCodeURL(conf *oauth2.Config, state string) string {
	return conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// RefreshIfExpired returns tok unchanged while it is still valid. Otherwise it
// exchanges the refresh token for a new access token and reports refreshed=true;
// persisting the new token is the caller's job.
func RefreshIfExpired(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token) (*oauth2.Token, bool, error) {
	if tok == nil {
		return nil, false, errors.New("no token supplied")
	}
	if tok.Valid() {
		return tok, false, nil
	}
	if tok.RefreshToken == "" {
		return nil, false, ErrRefreshTokenMissing
	}

	src := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: tok.RefreshToken})
	fresh, err := src.Token()
	if err != nil {
		return nil, false, fmt.Errorf("unable to refresh access token: %w", err)
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = tok.RefreshToken
	}
	return fresh, true, nil
}

// HTTPClient returns a client that always presents tok and never refreshes it
// behind the caller's back.
func HTTPClient(ctx context.Context, tok *oauth2.Token) *http.Client {
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
}
