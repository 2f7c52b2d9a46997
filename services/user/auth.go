package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	userRepo "sailsmart/database/repository/user"
	"sailsmart/models"
	"sailsmart/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	numberRe = regexp.MustCompile(`[0-9]`)
)

// verifyPasswordComplexity checks that the password is at least 8 characters long and
// mixes upper and lower case letters with digits.
func verifyPasswordComplexity(pw string) error {
	switch {
	case len(pw) < 8:
		return fmt.Errorf("password must be at least 8 characters long")
	case !upperRe.MatchString(pw):
		return fmt.Errorf("password must include at least one uppercase letter")
	case !lowerRe.MatchString(pw):
		return fmt.Errorf("password must include at least one lowercase letter")
	case !numberRe.MatchString(pw):
		return fmt.Errorf("password must include at least one number")
	}
	return nil
}

// SignUp creates the account and signs the user in.
func (s *DefaultUserService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, "", utils.Validation("email is required")
	}
	if err := verifyPasswordComplexity(req.Password); err != nil {
		return nil, "", utils.Validation(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", utils.Internal("registration failed, please try again", err)
	}

	now := s.now()
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: string(hashed),
		Roles:        []models.UserRole{},
		RiskLevels:   []models.RiskLevel{},
		Skills:       []models.Skill{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			return nil, "", utils.Conflict("a user with this email already exists")
		}
		return nil, "", err
	}

	token, err := s.issueToken(ctx, u)
	if err != nil {
		return nil, "", err
	}
	u.PasswordHash = ""
	return u, token, nil
}

// SignIn verifies the credentials and issues a fresh token, replacing any previous one.
func (s *DefaultUserService) SignIn(ctx context.Context, req models.SignInRequest) (*models.User, string, error) {
	u, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, "", err
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", utils.Unauthenticated("invalid email or password")
	}

	token, err := s.issueToken(ctx, u)
	if err != nil {
		return nil, "", err
	}
	u.PasswordHash = ""
	return u, token, nil
}

func (s *DefaultUserService) issueToken(ctx context.Context, u *models.User) (string, error) {
	token, err := utils.GenerateToken(u.ID, u.Email, utils.TokenTTL)
	if err != nil {
		return "", utils.Internal("failed to issue token", err)
	}
	hash := utils.HashToken(token)
	if err := s.Repo.SetTokenHash(ctx, u.ID, hash); err != nil {
		return "", err
	}
	if s.AuthCache != nil {
		if err := s.AuthCache.Set(ctx, utils.AuthCachePrefix+u.ID, hash, utils.AuthCacheTTL).Err(); err != nil {
			utils.GetLogger().Warn("Failed to cache token hash", zap.String("userId", u.ID), zap.Error(err))
		}
	}
	return token, nil
}
