package usecase

import (
	"context"
	"time"

	analysisdomain "mail-calendar-agent/internal/analysis/domain"
	calendardto "mail-calendar-agent/internal/calendar/dto"
	emaildomain "mail-calendar-agent/internal/email/domain"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
)

// TokenResolver returns a valid access token for a user.
type TokenResolver interface {
	ResolveToken(ctx context.Context, email string) (*oauth2.Token, error)
}

// EventClient is the subset of the Calendar client used by the gateway.
type EventClient interface {
	InsertEvent(ctx context.Context, token *oauth2.Token, event *gcal.Event) (*gcal.Event, error)
	GetEvent(ctx context.Context, token *oauth2.Token, eventID string) (*gcal.Event, error)
	PatchEvent(ctx context.Context, token *oauth2.Token, eventID string, patch *gcal.Event) (*gcal.Event, error)
	DeleteEvent(ctx context.Context, token *oauth2.Token, eventID string) error
	ListEvents(ctx context.Context, token *oauth2.Token, timeMin time.Time, maxResults int64) ([]*gcal.Event, error)
	ListCalendars(ctx context.Context, token *oauth2.Token) ([]*gcal.CalendarListEntry, error)
}

// CalendarUsecase defines the scheduling gateway operations
type CalendarUsecase interface {
	CreateFromAnalysis(ctx context.Context, email string, msg *emaildomain.Message, result *analysisdomain.Result) (*gcal.Event, error)
	ListUpcoming(ctx context.Context, email string, maxResults int) ([]*gcal.Event, error)
	ListAgentCreated(ctx context.Context, email string, maxResults int) ([]*gcal.Event, error)
	Update(ctx context.Context, email, eventID string, patch *gcal.Event) (*gcal.Event, error)
	Delete(ctx context.Context, email, eventID string) error
	TestConnection(ctx context.Context, email string) *calendardto.ConnectionResult
	TestEventCreation(ctx context.Context, email string) *calendardto.EventCreationTestResult
	Debug(ctx context.Context, email string) (*calendardto.DebugComparison, error)
}
