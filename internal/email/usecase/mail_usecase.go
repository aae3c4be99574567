package usecase

import (
	"context"
	"fmt"
	"log"

	emaildomain "mail-calendar-agent/internal/email/domain"
	emaildto "mail-calendar-agent/internal/email/dto"
	"mail-calendar-agent/internal/email/repository"
	"mail-calendar-agent/pkg/gmail"
	"mail-calendar-agent/pkg/throttle"

	"golang.org/x/oauth2"
)

// mailUsecase implements MailUsecase interface
type mailUsecase struct {
	tokens        TokenResolver
	client        MailClient
	processedRepo repository.ProcessedEmailRepository
	logRepo       repository.AgentLogRepository
	fetchThrottle throttle.Throttle
}

// NewMailUsecase creates a new instance of mailUsecase
func NewMailUsecase(tokens TokenResolver, client MailClient, processedRepo repository.ProcessedEmailRepository, logRepo repository.AgentLogRepository, fetchThrottle throttle.Throttle) MailUsecase {
	if fetchThrottle == nil {
		fetchThrottle = throttle.Noop()
	}
	return &mailUsecase{
		tokens:        tokens,
		client:        client,
		processedRepo: processedRepo,
		logRepo:       logRepo,
		fetchThrottle: fetchThrottle,
	}
}

func (u *mailUsecase) ListRecent(ctx context.Context, email string, maxResults int, timeRange string) ([]emaildomain.MessageRef, error) {
	if err := gmail.ValidateTimeRange(timeRange); err != nil {
		return nil, err
	}

	token, err := u.tokens.ResolveToken(ctx, email)
	if err != nil {
		u.logAction(email, emaildomain.ActionFetchEmails, emaildomain.LogStatusError, err.Error())
		return nil, err
	}

	log.Printf("[Gmail] Fetching emails for %s with query: %s", email, gmail.RecentQuery(timeRange))
	refs, err := u.client.ListRecent(ctx, token, int64(maxResults), timeRange)
	if err != nil {
		u.logAction(email, emaildomain.ActionFetchEmails, emaildomain.LogStatusError, err.Error())
		return nil, fmt.Errorf("failed to get recent emails: %w", err)
	}

	u.logAction(email, emaildomain.ActionFetchEmails, emaildomain.LogStatusSuccess, fmt.Sprintf("Found %d emails", len(refs)))
	log.Printf("[Gmail] Found %d recent emails", len(refs))
	return refs, nil
}

func (u *mailUsecase) GetDetails(ctx context.Context, email, messageID string) (*emaildomain.Message, error) {
	token, err := u.tokens.ResolveToken(ctx, email)
	if err != nil {
		return nil, err
	}
	return u.fetch(ctx, email, token, messageID)
}

// GetDetailsBatch fetches messages one at a time, skipping those already
// processed. Failures are collected rather than returned.
func (u *mailUsecase) GetDetailsBatch(ctx context.Context, email string, messageIDs []string) ([]*emaildomain.Message, []emaildto.ProcessingError) {
	messages := make([]*emaildomain.Message, 0, len(messageIDs))
	var failures []emaildto.ProcessingError

	token, err := u.tokens.ResolveToken(ctx, email)
	if err != nil {
		for _, id := range messageIDs {
			failures = append(failures, emaildto.ProcessingError{Type: emaildto.ErrorTypeFetch, MessageID: id, Error: err.Error()})
		}
		return messages, failures
	}

	for _, id := range messageIDs {
		processed, err := u.processedRepo.IsProcessed(id)
		if err != nil {
			failures = append(failures, emaildto.ProcessingError{Type: emaildto.ErrorTypeFetch, MessageID: id, Error: err.Error()})
			continue
		}
		if processed {
			log.Printf("[Gmail] Skipping already processed email %s", id)
			continue
		}

		if err := u.fetchThrottle.Wait(ctx); err != nil {
			failures = append(failures, emaildto.ProcessingError{Type: emaildto.ErrorTypeFetch, MessageID: id, Error: err.Error()})
			break
		}

		msg, err := u.fetch(ctx, email, token, id)
		if err != nil {
			failures = append(failures, emaildto.ProcessingError{Type: emaildto.ErrorTypeFetch, MessageID: id, Error: err.Error()})
			continue
		}
		messages = append(messages, msg)
	}

	return messages, failures
}

func (u *mailUsecase) ListProcessed(email string, limit int) ([]*emaildomain.ProcessedEmail, error) {
	return u.processedRepo.ListByUser(email, limit)
}

func (u *mailUsecase) TestConnection(ctx context.Context, email string) *emaildto.ConnectionResult {
	token, err := u.tokens.ResolveToken(ctx, email)
	if err != nil {
		return &emaildto.ConnectionResult{Success: false, Error: err.Error()}
	}

	profile, err := u.client.GetProfile(ctx, token)
	if err != nil {
		log.Printf("[Gmail] connection test failed for %s: %v", email, err)
		return &emaildto.ConnectionResult{Success: false, Error: err.Error()}
	}

	return &emaildto.ConnectionResult{
		Success:       true,
		EmailAddress:  profile.EmailAddress,
		MessagesTotal: profile.MessagesTotal,
	}
}

func (u *mailUsecase) fetch(ctx context.Context, email string, token *oauth2.Token, messageID string) (*emaildomain.Message, error) {
	msg, err := u.client.GetMessage(ctx, token, messageID)
	if err != nil {
		u.logAction(email, emaildomain.ActionGetEmailDetails, emaildomain.LogStatusError, fmt.Sprintf("Failed to get email %s: %v", messageID, err))
		return nil, fmt.Errorf("failed to get email details: %w", err)
	}
	return msg, nil
}

func (u *mailUsecase) logAction(email, action, status, details string) {
	if err := u.logRepo.Log(email, action, status, details); err != nil {
		log.Printf("[Gmail] failed to write agent log: %v", err)
	}
}
