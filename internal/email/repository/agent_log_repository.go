package repository

import (
	"time"

	emaildomain "mail-calendar-agent/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// agentLogRepository implements AgentLogRepository interface
type agentLogRepository struct {
	db *gorm.DB
}

// NewAgentLogRepository creates a new instance of agentLogRepository
func NewAgentLogRepository(db *gorm.DB) AgentLogRepository {
	return &agentLogRepository{
		db: db,
	}
}

func (r *agentLogRepository) Log(userEmail, action, status, details string) error {
	entry := &emaildomain.AgentLog{
		ID:        uuid.New().String(),
		UserEmail: userEmail,
		Action:    action,
		Status:    status,
		Details:   details,
		CreatedAt: time.Now(),
	}
	return r.db.Create(entry).Error
}

func (r *agentLogRepository) ListByUser(userEmail string, limit int) ([]*emaildomain.AgentLog, error) {
	var logs []*emaildomain.AgentLog
	query := r.db.Where("user_email = ?", userEmail).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *agentLogRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&emaildomain.AgentLog{}).Count(&count).Error
	return count, err
}

func (r *agentLogRepository) CountByUser(userEmail string) (int64, error) {
	var count int64
	err := r.db.Model(&emaildomain.AgentLog{}).Where("user_email = ?", userEmail).Count(&count).Error
	return count, err
}

func (r *agentLogRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&emaildomain.AgentLog{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
