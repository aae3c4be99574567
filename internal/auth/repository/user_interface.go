package repository

import (
	"time"

	authdomain "mail-calendar-agent/internal/auth/domain"
)

// UserRepository defines the interface for the credential store
type UserRepository interface {
	FindByEmail(email string) (*authdomain.User, error)
	Upsert(user *authdomain.User) (*authdomain.User, error)
	UpdateTokens(email, accessToken, refreshToken string, expiry *time.Time) error
	List(limit int) ([]*authdomain.User, error)
	Count() (int64, error)
}
