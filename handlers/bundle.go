package handlers

import (
	"sailsmart/middleware"

	"github.com/go-redis/redis/v8"
)

// HandlerBundle groups all endpoint handlers and what the auth middleware needs.
type HandlerBundle struct {
	TokenStore middleware.TokenStore
	AuthCache  *redis.Client
	RateLimit  int
	// AllowedOrigins may send credentialed cross-origin requests.
	AllowedOrigins []string

	Session      *SessionHandler
	Auth         *AuthHandler
	Profile      *ProfileHandler
	Journey      *JourneyHandler
	Registration *RegistrationHandler
	Document     *DocumentHandler
	Health       *HealthHandler
}
