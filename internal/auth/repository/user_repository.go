package repository

import (
	"errors"
	"time"

	authdomain "mail-calendar-agent/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) FindByEmail(email string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Upsert inserts the user or refreshes the tokens of an existing one. A
// stored refresh token is only replaced by a new non-empty one.
func (r *userRepository) Upsert(user *authdomain.User) (*authdomain.User, error) {
	now := time.Now()
	row := *user
	row.ID = uuid.New().String()
	row.CreatedAt = now
	row.UpdatedAt = now

	updates := []string{"access_token", "token_expiry", "updated_at"}
	if user.RefreshToken != "" {
		updates = append(updates, "refresh_token")
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	return r.FindByEmail(user.Email)
}

func (r *userRepository) UpdateTokens(email, accessToken, refreshToken string, expiry *time.Time) error {
	updates := map[string]interface{}{
		"access_token": accessToken,
		"token_expiry": expiry,
		"updated_at":   time.Now(),
	}
	if refreshToken != "" {
		updates["refresh_token"] = refreshToken
	}
	return r.db.Model(&authdomain.User{}).Where("email = ?", email).Updates(updates).Error
}

func (r *userRepository) List(limit int) ([]*authdomain.User, error) {
	var users []*authdomain.User
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&authdomain.User{}).Count(&count).Error
	return count, err
}
