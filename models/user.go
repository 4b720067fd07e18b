package models

import "time"

// User represents an account in the users table. The password hash is
// never serialized to clients.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RegisterRequest is the request body for POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// FavoriteRequest is the request body for POST /favorites/:id
// Action must be "mark" or "unmark".
type FavoriteRequest struct {
	Action string `json:"action"`
}

// FavoriteResponse reports the resulting membership state after a toggle
type FavoriteResponse struct {
	Message    string `json:"message"`
	IsFavorite bool   `json:"is_favorite"`
}
