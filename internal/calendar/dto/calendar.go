package dto

import gcal "google.golang.org/api/calendar/v3"

type EventsResponse struct {
	Success bool          `json:"success"`
	Events  []*gcal.Event `json:"events"`
}

type AIEventsResponse struct {
	Success  bool          `json:"success"`
	AIEvents []*gcal.Event `json:"aiEvents"`
}

type CalendarSummary struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
	Primary bool   `json:"primary"`
}

// ConnectionResult reports a calendar round trip.
type ConnectionResult struct {
	Success   bool              `json:"success"`
	Calendars []CalendarSummary `json:"calendars,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// EventCreationTestResult reports an insert followed by a read of the same event.
type EventCreationTestResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	EventID       string `json:"eventId,omitempty"`
	EventSummary  string `json:"eventSummary,omitempty"`
	CreateSuccess bool   `json:"createSuccess"`
	CanRetrieve   bool   `json:"canRetrieve"`
	Error         string `json:"error,omitempty"`
}

type CalendarEventRef struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

type DatabaseEventRef struct {
	CalendarEventID string `json:"calendar_event_id"`
	Subject         string `json:"subject"`
}

type EventMismatch struct {
	Subject         string `json:"subject"`
	CalendarEventID string `json:"calendar_event_id"`
	Issue           string `json:"issue"`
}

// DebugComparison lines up agent-created calendar events with the event ids
// stored on processed emails.
type DebugComparison struct {
	CalendarEventIDs []CalendarEventRef `json:"calendarEventIds"`
	DatabaseEventIDs []DatabaseEventRef `json:"databaseEventIds"`
	Mismatches       []EventMismatch    `json:"mismatches"`
}
