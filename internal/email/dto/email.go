package dto

import emaildomain "mail-calendar-agent/internal/email/domain"

// Error types reported in a processing run
const (
	ErrorTypeFetch      = "fetch"
	ErrorTypeCalendar   = "calendar"
	ErrorTypeProcessing = "processing"
)

// ProcessingError is a per-item failure that did not stop the run.
type ProcessingError struct {
	Type         string `json:"type"`
	MessageID    string `json:"messageId,omitempty"`
	EmailSubject string `json:"emailSubject,omitempty"`
	Error        string `json:"error"`
}

type RecentEmailsResponse struct {
	Success bool                     `json:"success"`
	Emails  []emaildomain.MessageRef `json:"emails"`
	Count   int                      `json:"count"`
}

type ProcessedEmailsResponse struct {
	Success         bool                          `json:"success"`
	ProcessedEmails []*emaildomain.ProcessedEmail `json:"processedEmails"`
}

type EmailDetailsResponse struct {
	Success bool                 `json:"success"`
	Email   *emaildomain.Message `json:"email"`
}

// ConnectionResult reports a mailbox round trip.
type ConnectionResult struct {
	Success       bool   `json:"success"`
	EmailAddress  string `json:"emailAddress,omitempty"`
	MessagesTotal int64  `json:"messagesTotal,omitempty"`
	Error         string `json:"error,omitempty"`
}
