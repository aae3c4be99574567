package repository

import emaildomain "mail-calendar-agent/internal/email/domain"

// ProcessedEmailRepository defines the interface for processed email persistence
type ProcessedEmailRepository interface {
	// Save inserts the record unless its message id already exists and
	// returns the number of rows written (0 or 1).
	Save(record *emaildomain.ProcessedEmail) (int64, error)
	IsProcessed(messageID string) (bool, error)
	FindByMessageID(messageID string) (*emaildomain.ProcessedEmail, error)
	ListByUser(userEmail string, limit int) ([]*emaildomain.ProcessedEmail, error)
	CountAll() (int64, error)
	CountByUser(userEmail string) (int64, error)
	CountWithEvents() (int64, error)
	AverageImportance() (float64, error)
}
