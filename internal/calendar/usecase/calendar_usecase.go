package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	analysisdomain "mail-calendar-agent/internal/analysis/domain"
	calendardto "mail-calendar-agent/internal/calendar/dto"
	emaildomain "mail-calendar-agent/internal/email/domain"
	"mail-calendar-agent/internal/email/repository"

	gcal "google.golang.org/api/calendar/v3"
)

const (
	DefaultUpcomingMax     = 10
	DefaultAgentCreatedMax = 50
	agentLookback          = 30 * 24 * time.Hour
)

// calendarUsecase implements CalendarUsecase interface
type calendarUsecase struct {
	tokens        TokenResolver
	client        EventClient
	processedRepo repository.ProcessedEmailRepository
	logRepo       repository.AgentLogRepository
	location      *time.Location
	now           func() time.Time
}

// NewCalendarUsecase creates a new instance of calendarUsecase
func NewCalendarUsecase(tokens TokenResolver, client EventClient, processedRepo repository.ProcessedEmailRepository, logRepo repository.AgentLogRepository, location *time.Location) CalendarUsecase {
	if location == nil {
		location = time.Local
	}
	return &calendarUsecase{
		tokens:        tokens,
		client:        client,
		processedRepo: processedRepo,
		logRepo:       logRepo,
		location:      location,
		now:           time.Now,
	}
}

// CreateFromAnalysis inserts an event for a result with a deadline. Results
// without one yield (nil, nil) and no API call.
func (u *calendarUsecase) CreateFromAnalysis(ctx context.Context, email string, msg *emaildomain.Message, result *analysisdomain.Result) (*gcal.Event, error) {
	if !result.HasDeadline() {
		return nil, nil
	}

	created, err := u.insert(ctx, email, BuildEvent(msg, result, u.now(), u.location))
	if err != nil {
		u.logAction(email, emaildomain.ActionCreateCalendarEvent, emaildomain.LogStatusError,
			fmt.Sprintf("Failed to create event for email: %s - %v", msg.Subject, err))
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}

	u.logAction(email, emaildomain.ActionCreateCalendarEvent, emaildomain.LogStatusSuccess,
		fmt.Sprintf("Created event: %s (%s)", created.Summary, created.Id))
	log.Printf("[Calendar] Created calendar event: %s", created.Summary)
	return created, nil
}

func (u *calendarUsecase) insert(ctx context.Context, email string, event *gcal.Event) (*gcal.Event, error) {
	token, err := u.tokens.ResolveToken(ctx, email)
	if err != nil {
		return nil, err
	}
	return u.client.InsertEvent(ctx, token, event)
}

func (u *calendarUsecase) ListUpcoming(ctx context.Context, email string, maxResults int) ([]*gcal.Event, error) {
	if maxResults <= 0 {
		maxResults = DefaultUpcomingMax
	}
	token, err := u.tokens.ResolveToken(ctx, email)
	if err != nil {
		return nil, err
	}

	events, err := u.client.ListEvents(ctx, token, u.now(), int64(maxResults))
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming events: %w", err)
	}
	log.Printf("[Calendar] Retrieved %d upcoming events", len(events))
	return events, nil
}

// ListAgentCreated returns events from the last 30 days onward that carry the
// agent marker. Filtering happens client side.
func (u *calendarUsecase) ListAgentCreated(ctx context.Context, email string, maxResults int) ([]*gcal.Event, error) {
	if maxResults <= 0 {
		maxResults = DefaultAgentCreatedMax
	}
	token, err := u.tokens.ResolveToken(ctx, email)
	if err != nil {
		return nil, err
	}

	all, err := u.client.ListEvents(ctx, token, u.now().Add(-agentLookback), int64(maxResults))
	if err != nil {
		return nil, fmt.Errorf("failed to get AI created events: %w", err)
	}

	events := make([]*gcal.Event, 0, len(all))
	for _, e := range all {
		if IsAgentCreated(e) {
			events = append(events, e)
		}
	}
	log.Printf("[Calendar] Found %d AI-created events", len(events))
	return events, nil
}

func (u *calendarUsecase) Update(ctx context.Context, email, eventID string, patch *gcal.Event) (*gcal.Event, error) {
	token, err := u.tokens.ResolveToken(ctx, email)
	if err != nil {
		return nil, err
	}

	updated, err := u.client.PatchEvent(ctx, token, eventID, patch)
	if err != nil {
		u.logAction(email, emaildomain.ActionUpdateCalendarEvent, emaildomain.LogStatusError,
			fmt.Sprintf("Failed to update event %s: %v", eventID, err))
		return nil, fmt.Errorf("failed to update calendar event: %w", err)
	}

	u.logAction(email, emaildomain.ActionUpdateCalendarEvent, emaildomain.LogStatusSuccess,
		fmt.Sprintf("Updated event: %s (%s)", updated.Summary, updated.Id))
	return updated, nil
}

func (u *calendarUsecase) Delete(ctx context.Context, email, eventID string) error {
	token, err := u.tokens.ResolveToken(ctx, email)
	if err != nil {
		return err
	}

	if err := u.client.DeleteEvent(ctx, token, eventID); err != nil {
		u.logAction(email, emaildomain.ActionDeleteCalendarEvent, emaildomain.LogStatusError,
			fmt.Sprintf("Failed to delete event %s: %v", eventID, err))
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}

	u.logAction(email, emaildomain.ActionDeleteCalendarEvent, emaildomain.LogStatusSuccess, "Deleted event: "+eventID)
	return nil
}

func (u *calendarUsecase) TestConnection(ctx context.Context, email string) *calendardto.ConnectionResult {
	token, err := u.tokens.ResolveToken(ctx, email)
	if err != nil {
		return &calendardto.ConnectionResult{Success: false, Error: err.Error()}
	}

	entries, err := u.client.ListCalendars(ctx, token)
	if err != nil {
		log.Printf("[Calendar] connection test failed for %s: %v", email, err)
		return &calendardto.ConnectionResult{Success: false, Error: err.Error()}
	}

	calendars := make([]calendardto.CalendarSummary, 0, len(entries))
	for _, c := range entries {
		calendars = append(calendars, calendardto.CalendarSummary{ID: c.Id, Summary: c.Summary, Primary: c.Primary})
	}
	return &calendardto.ConnectionResult{Success: true, Calendars: calendars}
}

// TestEventCreation inserts a marked test event for tomorrow and reads it back.
func (u *calendarUsecase) TestEventCreation(ctx context.Context, email string) *calendardto.EventCreationTestResult {
	start := u.now().Add(24 * time.Hour)
	test := &gcal.Event{
		Summary:     "🧪 Test Event - Mail Calendar AI Agent",
		Description: "This is a test event created by the Mail Calendar AI Agent to verify event creation and retrieval.",
		Start:       eventTime(start.In(u.location), u.location),
		End:         eventTime(start.Add(time.Hour).In(u.location), u.location),
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{AgentMarkerKey: AgentMarkerValue, "test-event": "true"},
		},
	}

	token, err := u.tokens.ResolveToken(ctx, email)
	if err != nil {
		return &calendardto.EventCreationTestResult{Message: "Event creation failed", Error: err.Error()}
	}

	created, err := u.client.InsertEvent(ctx, token, test)
	if err != nil {
		return &calendardto.EventCreationTestResult{Message: "Event creation failed", Error: err.Error()}
	}

	if _, err := u.client.GetEvent(ctx, token, created.Id); err != nil {
		return &calendardto.EventCreationTestResult{
			Message:       "Event was created but cannot be retrieved",
			EventID:       created.Id,
			CreateSuccess: true,
			Error:         err.Error(),
		}
	}

	return &calendardto.EventCreationTestResult{
		Success:       true,
		Message:       "Event creation and retrieval test passed",
		EventID:       created.Id,
		EventSummary:  created.Summary,
		CreateSuccess: true,
		CanRetrieve:   true,
	}
}

// Debug compares agent-created events against the calendar_event_id values
// stored on the user's processed emails.
func (u *calendarUsecase) Debug(ctx context.Context, email string) (*calendardto.DebugComparison, error) {
	events, err := u.ListAgentCreated(ctx, email, DefaultAgentCreatedMax)
	if err != nil {
		return nil, err
	}
	records, err := u.processedRepo.ListByUser(email, DefaultAgentCreatedMax)
	if err != nil {
		return nil, err
	}

	comparison := &calendardto.DebugComparison{
		CalendarEventIDs: make([]calendardto.CalendarEventRef, 0, len(events)),
		DatabaseEventIDs: []calendardto.DatabaseEventRef{},
		Mismatches:       []calendardto.EventMismatch{},
	}

	onCalendar := make(map[string]bool, len(events))
	for _, e := range events {
		onCalendar[e.Id] = true
		comparison.CalendarEventIDs = append(comparison.CalendarEventIDs, calendardto.CalendarEventRef{ID: e.Id, Summary: e.Summary})
	}

	for _, r := range records {
		if !r.HasCalendarEvent() {
			continue
		}
		comparison.DatabaseEventIDs = append(comparison.DatabaseEventIDs, calendardto.DatabaseEventRef{
			CalendarEventID: *r.CalendarEventID,
			Subject:         r.Subject,
		})
		if !onCalendar[*r.CalendarEventID] {
			comparison.Mismatches = append(comparison.Mismatches, calendardto.EventMismatch{
				Subject:         r.Subject,
				CalendarEventID: *r.CalendarEventID,
				Issue:           "Event ID in database but not found in Google Calendar",
			})
		}
	}

	return comparison, nil
}

func (u *calendarUsecase) logAction(email, action, status, details string) {
	if err := u.logRepo.Log(email, action, status, details); err != nil {
		log.Printf("[Calendar] failed to write agent log: %v", err)
	}
}
