package usecase

import (
	dashboarddto "mail-calendar-agent/internal/dashboard/dto"
	emaildomain "mail-calendar-agent/internal/email/domain"
)

// TableLister reports the tables present in the store. gorm.Migrator
// satisfies it.
type TableLister interface {
	GetTables() ([]string, error)
}

// DashboardUsecase defines the read-only dashboard and inspection operations
type DashboardUsecase interface {
	Stats() (*dashboarddto.OverallStats, error)
	UserDashboard(email string) (*dashboarddto.UserDashboard, error)
	Tables() ([]string, error)
	Users() ([]dashboarddto.UserDetail, error)
	Emails(email string, limit int) ([]dashboarddto.EmailRow, error)
	Logs(email string, limit int) ([]*emaildomain.AgentLog, error)
	DatabaseStats() (*dashboarddto.DatabaseStats, error)
	EmailByMessageID(messageID string) (*dashboarddto.EmailDetail, error)
}
