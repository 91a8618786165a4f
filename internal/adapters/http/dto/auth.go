package dto

import "time"

// LoginRequest exchanges admin credentials for a token.
type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank,max=150"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries a newly issued token. The secret is shown only once.
type TokenResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}
