package user

import (
	"context"
	"strings"

	"sailsmart/models"
	"sailsmart/utils"

	"go.uber.org/zap"
)

// GetProfile serves fresh cache entries; otherwise it reads the store and falls back to a
// stale entry only when the store is unreachable.
func (s *DefaultUserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	var stale *models.User
	if s.Profiles != nil {
		if cached, fresh := s.Profiles.Get(ctx, userID); cached != nil {
			if fresh {
				return cached, nil
			}
			stale = cached
		}
	}

	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if stale != nil {
			utils.GetLogger().Warn("Serving stale profile", zap.String("userId", userID), zap.Error(err))
			return stale, nil
		}
		return nil, err
	}
	if u == nil {
		return nil, utils.NotFound("user not found")
	}
	if s.Profiles != nil {
		s.Profiles.Put(ctx, userID, u)
	}
	return u, nil
}

// UpdateProfile applies the non-nil fields and writes the result through to the local
// profile cache. Shared cached copies are dropped after the invalidation delay, so bursts
// of edits cost one invalidation.
func (s *DefaultUserService) UpdateProfile(ctx context.Context, userID string, req models.ProfileUpdateRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, utils.Validation(err.Error())
	}

	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, utils.NotFound("user not found")
	}

	if req.FullName != nil {
		u.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Roles != nil {
		u.Roles = dedupeRoles(*req.Roles)
	}
	if req.ExperienceLevel != nil {
		u.ExperienceLevel = *req.ExperienceLevel
	}
	if req.RiskLevels != nil {
		u.RiskLevels = dedupeRisk(*req.RiskLevels)
	}
	if req.Skills != nil {
		skills := make([]models.Skill, 0, len(*req.Skills))
		for _, sk := range *req.Skills {
			skills = append(skills, models.Skill{Name: strings.TrimSpace(sk.Name), Description: strings.TrimSpace(sk.Description)})
		}
		u.Skills = skills
	}
	if req.Consents != nil {
		consents := *req.Consents
		consents.ConsentRecordedAt = u.Consents.ConsentRecordedAt
		if !sameConsents(consents, u.Consents) {
			now := s.now()
			consents.ConsentRecordedAt = &now
		}
		u.Consents = consents
	}
	if req.FCMToken != nil {
		u.FCMToken = *req.FCMToken
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	// This replica reads its own write; other replicas wait for the invalidation.
	if s.Profiles != nil {
		cached := *u
		cached.PasswordHash, cached.TokenHash = "", ""
		s.Profiles.Put(ctx, userID, &cached)
	}
	if s.Invalidator != nil {
		s.Invalidator.Schedule(userID)
	}
	return u, nil
}

func dedupeRoles(in []models.UserRole) []models.UserRole {
	seen := map[models.UserRole]bool{}
	out := make([]models.UserRole, 0, len(in))
	for _, r := range in {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func dedupeRisk(in []models.RiskLevel) []models.RiskLevel {
	seen := map[models.RiskLevel]bool{}
	out := make([]models.RiskLevel, 0, len(in))
	for _, r := range in {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func sameConsents(a, b models.ConsentFlags) bool {
	return a.TermsAccepted == b.TermsAccepted &&
		a.AIProcessing == b.AIProcessing &&
		a.ProfileSharing == b.ProfileSharing &&
		a.MarketingEmails == b.MarketingEmails
}
