package usecase

import (
	"context"

	authdto "mail-calendar-agent/internal/auth/dto"

	"golang.org/x/oauth2"
)

// AuthUsecase defines the OAuth flow and credential access
type AuthUsecase interface {
	GetAuthURL() (*authdto.AuthURLResponse, error)
	HandleCallback(ctx context.Context, code, state string) (*authdto.CallbackResult, error)
	Status(email string) (*authdto.StatusResponse, error)
	Logout(email string) error
	ResolveToken(ctx context.Context, email string) (*oauth2.Token, error)
	ValidateToken(tokenString string) (string, error)
}
