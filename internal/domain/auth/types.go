package auth

import "time"

// Config drives authentication behavior.
type Config struct {
	Enabled  bool
	Secret   string
	TokenTTL time.Duration
	Admins   []Admin
}

// Admin is an operator allowed to use the admin API.
type Admin struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"passwordHash"`
}

// LoginRequest captures login details.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the signed token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
}

// Claims are extracted from the JWT token.
type Claims struct {
	Username  string
	ExpiresAt time.Time
}
