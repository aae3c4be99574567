package usecase

import (
	"context"

	emaildomain "mail-calendar-agent/internal/email/domain"
	emaildto "mail-calendar-agent/internal/email/dto"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
)

// TokenResolver returns a valid access token for a user.
type TokenResolver interface {
	ResolveToken(ctx context.Context, email string) (*oauth2.Token, error)
}

// MailClient is the subset of the Gmail client used by the gateway.
type MailClient interface {
	ListRecent(ctx context.Context, token *oauth2.Token, maxResults int64, timeRange string) ([]emaildomain.MessageRef, error)
	GetMessage(ctx context.Context, token *oauth2.Token, messageID string) (*emaildomain.Message, error)
	GetProfile(ctx context.Context, token *oauth2.Token) (*gmail.Profile, error)
}

// MailUsecase defines the mail gateway operations
type MailUsecase interface {
	ListRecent(ctx context.Context, email string, maxResults int, timeRange string) ([]emaildomain.MessageRef, error)
	GetDetails(ctx context.Context, email, messageID string) (*emaildomain.Message, error)
	GetDetailsBatch(ctx context.Context, email string, messageIDs []string) ([]*emaildomain.Message, []emaildto.ProcessingError)
	ListProcessed(email string, limit int) ([]*emaildomain.ProcessedEmail, error)
	TestConnection(ctx context.Context, email string) *emaildto.ConnectionResult
}
