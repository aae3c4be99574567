package domain

import (
	"time"

	authdomain "mail-calendar-agent/internal/auth/domain"
)

// ProcessedEmail records that a message has been analyzed. MessageID is the
// idempotency key: a second insert for the same id is ignored. Rows belong to
// the user with the same email and are removed with it.
type ProcessedEmail struct {
	ID                uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserEmail         string    `json:"user_email" gorm:"index;not null"`
	MessageID         string    `json:"message_id" gorm:"type:varchar(255);uniqueIndex;not null"`
	Subject           string    `json:"subject"`
	Sender            string    `json:"sender"`
	Content           string    `json:"content" gorm:"type:text"`
	AISummary         string    `json:"ai_summary" gorm:"type:text"`
	ImportanceScore   int       `json:"importance_score"`
	DeadlineExtracted *string   `json:"deadline_extracted" gorm:"type:text"`
	CalendarEventID   *string   `json:"calendar_event_id" gorm:"index"`
	ProcessedAt       time.Time `json:"processed_at" gorm:"index"`

	User *authdomain.User `json:"-" gorm:"foreignKey:UserEmail;references:Email;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (ProcessedEmail) TableName() string {
	return "processed_emails"
}

func (p *ProcessedEmail) HasCalendarEvent() bool {
	return p.CalendarEventID != nil && *p.CalendarEventID != ""
}
