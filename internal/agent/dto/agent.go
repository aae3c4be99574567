package dto

import (
	"time"

	analysisusecase "mail-calendar-agent/internal/analysis/usecase"
	calendardto "mail-calendar-agent/internal/calendar/dto"
	emaildto "mail-calendar-agent/internal/email/dto"
)

// ProcessRequest is the body of POST /api/agent/process/:email. Zero values
// are replaced by the configured defaults.
type ProcessRequest struct {
	Email                string `json:"-"`
	MaxEmails            int    `json:"maxEmails"`
	TimeRange            string `json:"timeRange"`
	CreateCalendarEvents *bool  `json:"createCalendarEvents"`
}

// ShouldCreateEvents defaults to true when the caller did not say.
func (r ProcessRequest) ShouldCreateEvents() bool {
	return r.CreateCalendarEvents == nil || *r.CreateCalendarEvents
}

type EventRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ProcessedItem describes one message that produced a new processed record.
type ProcessedItem struct {
	ID              string    `json:"id"`
	Subject         string    `json:"subject"`
	From            string    `json:"from"`
	ImportanceScore int       `json:"importanceScore"`
	HasDeadline     bool      `json:"hasDeadline"`
	Category        string    `json:"category"`
	Summary         string    `json:"summary"`
	CreatedEvent    *EventRef `json:"createdEvent"`
}

type CreatedEvent struct {
	EventID      string `json:"eventId"`
	EventTitle   string `json:"eventTitle"`
	EventDate    string `json:"eventDate"`
	EmailSubject string `json:"emailSubject"`
}

type Summary struct {
	TotalEmails     int `json:"totalEmails"`
	ProcessedEmails int `json:"processedEmails"`
	CreatedEvents   int `json:"createdEvents"`
	SkippedEmails   int `json:"skippedEmails"`
	Errors          int `json:"errors"`
}

type Results struct {
	ProcessedEmails []ProcessedItem            `json:"processedEmails"`
	CreatedEvents   []CreatedEvent             `json:"createdEvents"`
	Errors          []emaildto.ProcessingError `json:"errors"`
	Summary         Summary                    `json:"summary"`
}

// NewResults returns results with empty, non-nil lists.
func NewResults() Results {
	return Results{
		ProcessedEmails: []ProcessedItem{},
		CreatedEvents:   []CreatedEvent{},
		Errors:          []emaildto.ProcessingError{},
	}
}

type ProcessResult struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	RunID   string  `json:"runId"`
	Results Results `json:"results"`
}

type RecentEmail struct {
	Subject          string    `json:"subject"`
	Sender           string    `json:"sender"`
	ImportanceScore  int       `json:"importanceScore"`
	ProcessedAt      time.Time `json:"processedAt"`
	HasCalendarEvent bool      `json:"hasCalendarEvent"`
}

type RecentEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	Description string `json:"description"`
}

type Stats struct {
	TotalProcessedEmails int           `json:"totalProcessedEmails"`
	RecentEmails         []RecentEmail `json:"recentEmails"`
	RecentEvents         []RecentEvent `json:"recentEvents"`
	LastProcessed        *time.Time    `json:"lastProcessed"`
	CalendarError        string        `json:"calendarError,omitempty"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Email   string `json:"email"`
	Stats   Stats  `json:"stats"`
}

type ServiceResults struct {
	Gmail    *emaildto.ConnectionResult       `json:"gmail"`
	AI       analysisusecase.ConnectionResult `json:"ai"`
	Calendar *calendardto.ConnectionResult    `json:"calendar"`
}

type ServiceTestResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Results ServiceResults `json:"results"`
}

type LogEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Status    string    `json:"status"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}
