package repository

import emaildomain "mail-calendar-agent/internal/email/domain"

// AgentLogRepository defines the interface for the append-only agent log
type AgentLogRepository interface {
	Log(userEmail, action, status, details string) error
	ListByUser(userEmail string, limit int) ([]*emaildomain.AgentLog, error)
	CountAll() (int64, error)
	CountByUser(userEmail string) (int64, error)
	CountByStatus(status string) (int64, error)
}
