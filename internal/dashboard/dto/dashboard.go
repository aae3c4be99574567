package dto

import (
	"time"

	analysisdomain "mail-calendar-agent/internal/analysis/domain"
	emaildomain "mail-calendar-agent/internal/email/domain"
)

type UserRef struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// OverallStats backs GET /api/dashboard/stats.
type OverallStats struct {
	TotalUsers        int64     `json:"totalUsers"`
	TotalEmails       int64     `json:"totalEmails"`
	SuccessfulActions int64     `json:"successfulActions"`
	RegisteredUsers   int       `json:"registeredUsers"`
	Users             []UserRef `json:"users"`
}

type ActionStats struct {
	TotalActions      int `json:"totalActions"`
	SuccessfulActions int `json:"successfulActions"`
	ErrorActions      int `json:"errorActions"`
	SuccessRate       int `json:"successRate"`
}

type UserDashboard struct {
	Email          string                  `json:"email"`
	RecentLogs     []*emaildomain.AgentLog `json:"recentLogs"`
	RecentActivity []*emaildomain.AgentLog `json:"recentActivity"`
	Stats          ActionStats             `json:"stats"`
}

// UserDetail is a user row without credentials.
type UserDetail struct {
	Email                string    `json:"email"`
	CreatedAt            time.Time `json:"created_at"`
	ProcessedEmailsCount int64     `json:"processedEmailsCount"`
	AgentLogsCount       int64     `json:"agentLogsCount"`
	HasTokens            bool      `json:"hasTokens"`
}

type EmailRow struct {
	ID               uint      `json:"id"`
	MessageID        string    `json:"messageId"`
	Subject          string    `json:"subject"`
	Sender           string    `json:"sender"`
	ImportanceScore  int       `json:"importanceScore"`
	HasDeadline      bool      `json:"hasDeadline"`
	HasCalendarEvent bool      `json:"hasCalendarEvent"`
	ProcessedAt      time.Time `json:"processedAt"`
	AISummary        string    `json:"aiSummary"`
	Content          *string   `json:"content"`
}

type DatabaseStats struct {
	TotalUsers        int64   `json:"totalUsers"`
	TotalEmails       int64   `json:"totalEmails"`
	SuccessfulActions int64   `json:"successfulActions"`
	Users             int64   `json:"users"`
	ProcessedEmails   int64   `json:"processedEmails"`
	AgentLogs         int64   `json:"agentLogs"`
	EmailsWithEvents  int64   `json:"emailsWithEvents"`
	AvgImportance     float64 `json:"avgImportance"`
}

// EmailDetail is a stored record with its deadline JSON decoded.
type EmailDetail struct {
	*emaildomain.ProcessedEmail
	DeadlineInfo *analysisdomain.DeadlineInfo `json:"deadline_info,omitempty"`
}
