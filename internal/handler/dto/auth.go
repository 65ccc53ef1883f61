// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// RegisterRequest represents the request body for registering a user.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries the bearer token issued at login.
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse is the body of every error and of message-only successes.
type MessageResponse struct {
	Message string `json:"message"`
}
