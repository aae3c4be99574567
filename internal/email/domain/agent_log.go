package domain

import "time"

const (
	LogStatusInfo    = "info"
	LogStatusSuccess = "success"
	LogStatusError   = "error"
)

// Agent log actions
const (
	ActionFetchEmails          = "fetch_emails"
	ActionGetEmailDetails      = "get_email_details"
	ActionCreateCalendarEvent  = "create_calendar_event"
	ActionUpdateCalendarEvent  = "update_calendar_event"
	ActionDeleteCalendarEvent  = "delete_calendar_event"
	ActionUserAuthenticated    = "user_authenticated"
	ActionUserLogout           = "user_logout"
	ActionAgentProcessStart    = "agent_process_start"
	ActionAgentProcessComplete = "agent_process_complete"
	ActionAgentProcessError    = "agent_process_error"
)

// AgentLog is an append-only record of a notable step.
type AgentLog struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserEmail string    `json:"user_email" gorm:"index;not null"`
	Action    string    `json:"action" gorm:"not null"`
	Status    string    `json:"status" gorm:"index;not null"`
	Details   string    `json:"details" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName specifies the table name for GORM
func (AgentLog) TableName() string {
	return "agent_logs"
}
