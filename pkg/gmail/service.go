package gmail

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	emaildomain "mail-calendar-agent/internal/email/domain"
	"mail-calendar-agent/pkg/googleauth"
	"mail-calendar-agent/pkg/googleerr"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	defaultSubject = "No Subject"
	defaultSender  = "Unknown Sender"
)

// Service builds a Gmail client per call from an already resolved token.
// It holds no per-user state.
type Service struct {
	opts []option.ClientOption
}

// NewService accepts extra client options, e.g. option.WithEndpoint in tests.
func NewService(opts ...option.ClientOption) *Service {
	return &Service{opts: opts}
}

// GetGmailService creates Gmail service with user's access token
func (s *Service) GetGmailService(ctx context.Context, token *oauth2.Token) (*gmail.Service, error) {
	opts := append([]option.ClientOption{option.WithHTTPClient(googleauth.HTTPClient(ctx, token))}, s.opts...)
	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return srv, nil
}

// ErrInvalidTimeRange is returned for windows that are not a count followed by
// d, m or y, e.g. "1d" or "2m".
var ErrInvalidTimeRange = errors.New("invalid time range")

var timeRangePattern = regexp.MustCompile(`^[0-9]+[dmy]$`)

func ValidateTimeRange(timeRange string) error {
	if !timeRangePattern.MatchString(timeRange) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeRange, timeRange)
	}
	return nil
}

// RecentQuery is the search used to find candidate messages. timeRange must
// already have passed ValidateTimeRange.
func RecentQuery(timeRange string) string {
	return fmt.Sprintf("newer_than:%s -in:spam -in:trash -from:noreply", timeRange)
}

// ListRecent returns references to messages newer than timeRange, capped at
// maxResults. No match yields an empty slice.
func (s *Service) ListRecent(ctx context.Context, token *oauth2.Token, maxResults int64, timeRange string) ([]emaildomain.MessageRef, error) {
	if err := ValidateTimeRange(timeRange); err != nil {
		return nil, err
	}

	srv, err := s.GetGmailService(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := srv.Users.Messages.List("me").Q(RecentQuery(timeRange)).MaxResults(maxResults).Context(ctx).Do()
	if err != nil {
		return nil, googleerr.Wrap("gmail", "list messages", err)
	}

	refs := make([]emaildomain.MessageRef, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		refs = append(refs, emaildomain.MessageRef{ID: m.Id, ThreadID: m.ThreadId})
	}
	return refs, nil
}

// GetMessage fetches a message in full format and decodes it.
func (s *Service) GetMessage(ctx context.Context, token *oauth2.Token, messageID string) (*emaildomain.Message, error) {
	srv, err := s.GetGmailService(ctx, token)
	if err != nil {
		return nil, err
	}

	msg, err := srv.Users.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, googleerr.Wrap("gmail", "get message "+messageID, err)
	}

	return convertGmailMessage(messageID, msg), nil
}

// GetProfile is the cheapest authenticated call and is used as a connection test.
func (s *Service) GetProfile(ctx context.Context, token *oauth2.Token) (*gmail.Profile, error) {
	srv, err := s.GetGmailService(ctx, token)
	if err != nil {
		return nil, err
	}

	profile, err := srv.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return nil, googleerr.Wrap("gmail", "get profile", err)
	}
	return profile, nil
}

func convertGmailMessage(messageID string, msg *gmail.Message) *emaildomain.Message {
	var headers []*gmail.MessagePartHeader
	if msg.Payload != nil {
		headers = msg.Payload.Headers
	}

	labels := msg.LabelIds
	if labels == nil {
		labels = []string{}
	}

	return &emaildomain.Message{
		ID:       messageID,
		ThreadID: msg.ThreadId,
		Subject:  headerOr(headers, "Subject", defaultSubject),
		From:     headerOr(headers, "From", defaultSender),
		Date:     headerOr(headers, "Date", ""),
		Body:     ExtractBody(msg.Payload),
		Snippet:  msg.Snippet,
		LabelIDs: labels,
	}
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if strings.EqualFold(header.Name, name) {
			return header.Value
		}
	}
	return ""
}

func headerOr(headers []*gmail.MessagePartHeader, name, fallback string) string {
	if v := getHeader(headers, name); v != "" {
		return v
	}
	return fallback
}
