package domain

import (
	"time"

	"golang.org/x/oauth2"
)

// User is an authorized mailbox owner and their stored Google credentials.
type User struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	TokenExpiry  *time.Time `json:"token_expiry,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) HasTokens() bool {
	return u != nil && u.AccessToken != ""
}

// OAuthToken converts the stored credentials. A nil expiry means the access
// token is treated as valid until Google rejects it.
func (u *User) OAuthToken() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  u.AccessToken,
		RefreshToken: u.RefreshToken,
		TokenType:    "Bearer",
	}
	if u.TokenExpiry != nil {
		tok.Expiry = *u.TokenExpiry
	}
	return tok
}
