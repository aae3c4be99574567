package calendar

import (
	"context"
	"fmt"
	"time"

	"mail-calendar-agent/pkg/googleauth"
	"mail-calendar-agent/pkg/googleerr"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// PrimaryCalendarID is the calendar every event is written to.
const PrimaryCalendarID = "primary"

// Service builds a Calendar client per call from an already resolved token.
type Service struct {
	opts []option.ClientOption
}

func NewService(opts ...option.ClientOption) *Service {
	return &Service{opts: opts}
}

// GetCalendarService creates Calendar service with user's access token
func (s *Service) GetCalendarService(ctx context.Context, token *oauth2.Token) (*calendar.Service, error) {
	opts := append([]option.ClientOption{option.WithHTTPClient(googleauth.HTTPClient(ctx, token))}, s.opts...)
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %w", err)
	}
	return srv, nil
}

func (s *Service) InsertEvent(ctx context.Context, token *oauth2.Token, event *calendar.Event) (*calendar.Event, error) {
	srv, err := s.GetCalendarService(ctx, token)
	if err != nil {
		return nil, err
	}

	created, err := srv.Events.Insert(PrimaryCalendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, googleerr.Wrap("calendar", "insert event", err)
	}
	return created, nil
}

func (s *Service) GetEvent(ctx context.Context, token *oauth2.Token, eventID string) (*calendar.Event, error) {
	srv, err := s.GetCalendarService(ctx, token)
	if err != nil {
		return nil, err
	}

	event, err := srv.Events.Get(PrimaryCalendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, googleerr.Wrap("calendar", "get event "+eventID, err)
	}
	return event, nil
}

// PatchEvent applies only the fields set on patch.
func (s *Service) PatchEvent(ctx context.Context, token *oauth2.Token, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	srv, err := s.GetCalendarService(ctx, token)
	if err != nil {
		return nil, err
	}

	updated, err := srv.Events.Patch(PrimaryCalendarID, eventID, patch).Context(ctx).Do()
	if err != nil {
		return nil, googleerr.Wrap("calendar", "patch event "+eventID, err)
	}
	return updated, nil
}

func (s *Service) DeleteEvent(ctx context.Context, token *oauth2.Token, eventID string) error {
	srv, err := s.GetCalendarService(ctx, token)
	if err != nil {
		return err
	}

	if err := srv.Events.Delete(PrimaryCalendarID, eventID).Context(ctx).Do(); err != nil {
		return googleerr.Wrap("calendar", "delete event "+eventID, err)
	}
	return nil
}

// ListEvents returns single (expanded) events starting after timeMin, ordered
// by start time.
func (s *Service) ListEvents(ctx context.Context, token *oauth2.Token, timeMin time.Time, maxResults int64) ([]*calendar.Event, error) {
	srv, err := s.GetCalendarService(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := srv.Events.List(PrimaryCalendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, googleerr.Wrap("calendar", "list events", err)
	}

	if resp.Items == nil {
		return []*calendar.Event{}, nil
	}
	return resp.Items, nil
}

func (s *Service) ListCalendars(ctx context.Context, token *oauth2.Token) ([]*calendar.CalendarListEntry, error) {
	srv, err := s.GetCalendarService(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, googleerr.Wrap("calendar", "list calendars", err)
	}
	return resp.Items, nil
}
