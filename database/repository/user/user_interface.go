package userRepo

import (
	"context"
	"errors"

	"sailsmart/models"
)

// ErrEmailTaken is returned by Create when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID without credential hashes.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by email, including the password hash.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetTokenHash returns the hash of the user's current access token.
	GetTokenHash(ctx context.Context, id string) (string, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// Update writes the profile fields of an existing user.
	Update(ctx context.Context, user *models.User) error
	// SetTokenHash records the hash of a freshly issued access token.
	SetTokenHash(ctx context.Context, id, tokenHash string) error
}
