package user

import (
	"context"
	"time"

	userRepo "sailsmart/database/repository/user"
	"sailsmart/models"

	"github.com/go-redis/redis/v8"
)

type UserService interface {
	// Authentication
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, string, error)
	SignIn(ctx context.Context, req models.SignInRequest) (*models.User, string, error)

	// Profile
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req models.ProfileUpdateRequest) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
	// AuthCache holds token hashes for the auth middleware. Optional.
	AuthCache   *redis.Client
	Profiles    ProfileCache
	Invalidator *Invalidator
	Now         func() time.Time
}

func NewUserService(repo userRepo.UserRepository, authCache *redis.Client, profiles ProfileCache, invalidationDelay time.Duration) *DefaultUserService {
	return &DefaultUserService{
		Repo:        repo,
		AuthCache:   authCache,
		Profiles:    profiles,
		Invalidator: NewInvalidator(profiles, invalidationDelay),
		Now:         time.Now,
	}
}

func (s *DefaultUserService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
