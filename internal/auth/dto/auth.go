package dto

import "time"

type AuthURLResponse struct {
	Success bool   `json:"success"`
	AuthURL string `json:"authUrl"`
	State   string `json:"state"`
	Message string `json:"message"`
}

// CallbackResult is produced once the OAuth code has been exchanged.
type CallbackResult struct {
	Email        string `json:"email"`
	SessionToken string `json:"token"`
}

type StatusResponse struct {
	Authenticated bool       `json:"authenticated"`
	Email         string     `json:"email"`
	HasTokens     bool       `json:"hasTokens"`
	CreatedAt     *time.Time `json:"createdAt"`
}
