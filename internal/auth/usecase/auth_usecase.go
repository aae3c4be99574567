package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	authdomain "mail-calendar-agent/internal/auth/domain"
	authdto "mail-calendar-agent/internal/auth/dto"
	"mail-calendar-agent/internal/auth/repository"
	emaildomain "mail-calendar-agent/internal/email/domain"
	emailrepo "mail-calendar-agent/internal/email/repository"
	"mail-calendar-agent/pkg/config"
	"mail-calendar-agent/pkg/googleauth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var (
	ErrUserNotAuthenticated = googleauth.ErrUserNotAuthenticated
	ErrInvalidState         = errors.New("invalid OAuth state")
	ErrInvalidToken         = errors.New("invalid token")
)

const (
	statePurpose = "oauth_state"
	stateExpiry  = 10 * time.Minute
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo    repository.UserRepository
	logRepo     emailrepo.AgentLogRepository
	oauthConfig *oauth2.Config
	config      *config.Config
	apiOpts     []option.ClientOption
}

// NewAuthUsecase creates a new instance of authUsecase. apiOpts are passed to
// the userinfo client.
func NewAuthUsecase(userRepo repository.UserRepository, logRepo emailrepo.AgentLogRepository, oauthConfig *oauth2.Config, cfg *config.Config, apiOpts ...option.ClientOption) AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		logRepo:     logRepo,
		oauthConfig: oauthConfig,
		config:      cfg,
		apiOpts:     apiOpts,
	}
}

func (u *authUsecase) GetAuthURL() (*authdto.AuthURLResponse, error) {
	if u.oauthConfig == nil {
		return nil, errors.New("Google OAuth is not configured")
	}

	state, err := u.sign(jwt.MapClaims{
		"purpose": statePurpose,
		"nonce":   uuid.New().String(),
		"exp":     time.Now().Add(stateExpiry).Unix(),
	})
	if err != nil {
		return nil, err
	}

	return &authdto.AuthURLResponse{
		Success: true,
		AuthURL: googleauth.AuthCodeURL(u.oauthConfig, state),
		State:   state,
		Message: "Visit the auth URL to authenticate with Google",
	}, nil
}

func (u *authUsecase) HandleCallback(ctx context.Context, code, state string) (*authdto.CallbackResult, error) {
	if u.oauthConfig == nil {
		return nil, errors.New("Google OAuth is not configured")
	}
	if claims, err := u.parse(state); err != nil || claims["purpose"] != statePurpose {
		return nil, ErrInvalidState
	}

	tok, err := u.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange authorization code: %w", err)
	}
	log.Println("[Auth] Received OAuth tokens")

	opts := append([]option.ClientOption{option.WithHTTPClient(googleauth.HTTPClient(ctx, tok))}, u.apiOpts...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to read user info: %w", err)
	}
	if info.Email == "" {
		return nil, errors.New("Google did not return an email address")
	}

	user := &authdomain.User{
		Email:        info.Email,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if !tok.Expiry.IsZero() {
		expiry := tok.Expiry
		user.TokenExpiry = &expiry
	}
	if _, err := u.userRepo.Upsert(user); err != nil {
		u.logAction(info.Email, emaildomain.ActionUserAuthenticated, emaildomain.LogStatusError, err.Error())
		return nil, fmt.Errorf("unable to save user: %w", err)
	}
	u.logAction(info.Email, emaildomain.ActionUserAuthenticated, emaildomain.LogStatusSuccess, "OAuth flow completed")

	session, err := u.generateSessionToken(info.Email)
	if err != nil {
		return nil, err
	}

	log.Printf("[Auth] User authenticated: %s", info.Email)
	return &authdto.CallbackResult{Email: info.Email, SessionToken: session}, nil
}

func (u *authUsecase) Status(email string) (*authdto.StatusResponse, error) {
	user, err := u.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}

	resp := &authdto.StatusResponse{
		Authenticated: user != nil,
		Email:         email,
		HasTokens:     user.HasTokens(),
	}
	if user != nil {
		createdAt := user.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp, nil
}

// Logout records the action only. Stored tokens stay valid.
func (u *authUsecase) Logout(email string) error {
	return u.logRepo.Log(email, emaildomain.ActionUserLogout, emaildomain.LogStatusSuccess, "User logged out")
}

// ResolveToken returns a usable access token for email, refreshing and
// persisting it first when it has expired.
func (u *authUsecase) ResolveToken(ctx context.Context, email string) (*oauth2.Token, error) {
	user, err := u.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if !user.HasTokens() {
		return nil, ErrUserNotAuthenticated
	}
	if u.oauthConfig == nil {
		return user.OAuthToken(), nil
	}

	tok, refreshed, err := googleauth.RefreshIfExpired(ctx, u.oauthConfig, user.OAuthToken())
	if err != nil {
		if errors.Is(err, googleauth.ErrRefreshTokenMissing) {
			return nil, fmt.Errorf("%w: %v", ErrUserNotAuthenticated, err)
		}
		return nil, err
	}

	if refreshed {
		var expiry *time.Time
		if !tok.Expiry.IsZero() {
			e := tok.Expiry
			expiry = &e
		}
		if err := u.userRepo.UpdateTokens(email, tok.AccessToken, tok.RefreshToken, expiry); err != nil {
			return nil, fmt.Errorf("unable to persist refreshed token: %w", err)
		}
		log.Printf("[Auth] Refreshed access token for %s", email)
	}
	return tok, nil
}

// ValidateToken checks a session token and returns the email it was issued for.
func (u *authUsecase) ValidateToken(tokenString string) (string, error) {
	claims, err := u.parse(tokenString)
	if err != nil {
		return "", ErrInvalidToken
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", errors.New("invalid token claims")
	}
	return email, nil
}

func (u *authUsecase) generateSessionToken(email string) (string, error) {
	return u.sign(jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":   time.Now().Unix(),
	})
}

func (u *authUsecase) sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func (u *authUsecase) logAction(email, action, status, details string) {
	if err := u.logRepo.Log(email, action, status, details); err != nil {
		log.Printf("[Auth] failed to write agent log: %v", err)
	}
}
