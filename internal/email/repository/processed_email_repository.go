package repository

import (
	"errors"
	"time"

	emaildomain "mail-calendar-agent/internal/email/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// processedEmailRepository implements ProcessedEmailRepository interface
type processedEmailRepository struct {
	db *gorm.DB
}

// NewProcessedEmailRepository creates a new instance of processedEmailRepository
func NewProcessedEmailRepository(db *gorm.DB) ProcessedEmailRepository {
	return &processedEmailRepository{
		db: db,
	}
}

func (r *processedEmailRepository) Save(record *emaildomain.ProcessedEmail) (int64, error) {
	if record.ProcessedAt.IsZero() {
		record.ProcessedAt = time.Now()
	}

	// INSERT ... ON CONFLICT (message_id) DO NOTHING
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}},
		DoNothing: true,
	}).Create(record)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *processedEmailRepository) IsProcessed(messageID string) (bool, error) {
	var count int64
	err := r.db.Model(&emaildomain.ProcessedEmail{}).Where("message_id = ?", messageID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *processedEmailRepository) FindByMessageID(messageID string) (*emaildomain.ProcessedEmail, error) {
	var record emaildomain.ProcessedEmail
	err := r.db.Where("message_id = ?", messageID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *processedEmailRepository) ListByUser(userEmail string, limit int) ([]*emaildomain.ProcessedEmail, error) {
	var records []*emaildomain.ProcessedEmail
	query := r.db.Where("user_email = ?", userEmail).Order("processed_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *processedEmailRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&emaildomain.ProcessedEmail{}).Count(&count).Error
	return count, err
}

func (r *processedEmailRepository) CountByUser(userEmail string) (int64, error) {
	var count int64
	err := r.db.Model(&emaildomain.ProcessedEmail{}).Where("user_email = ?", userEmail).Count(&count).Error
	return count, err
}

func (r *processedEmailRepository) CountWithEvents() (int64, error) {
	var count int64
	err := r.db.Model(&emaildomain.ProcessedEmail{}).
		Where("calendar_event_id IS NOT NULL AND calendar_event_id <> ''").
		Count(&count).Error
	return count, err
}

func (r *processedEmailRepository) AverageImportance() (float64, error) {
	var avg float64
	err := r.db.Model(&emaildomain.ProcessedEmail{}).
		Select("COALESCE(AVG(importance_score), 0)").
		Scan(&avg).Error
	return avg, err
}
