package journey

import (
	"context"
	"errors"
	"fmt"
	"strings"

	journeyRepo "sailsmart/database/repository/journey"
	"sailsmart/models"
	"sailsmart/utils"
)

func (s *DefaultJourneyService) CreateJourney(ctx context.Context, owner *models.User, in models.CreateJourneyInput) (*models.Journey, error) {
	if owner == nil || !owner.HasRole(models.RoleOwner) {
		return nil, utils.Forbidden("only boat owners can create journeys")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, utils.Validation("journey name is required")
	}
	if len(in.Legs) == 0 {
		return nil, utils.Validation("a journey needs at least one leg")
	}

	j := &models.Journey{
		OwnerID:               owner.ID,
		OwnerName:             owner.FullName,
		Name:                  name,
		Description:           in.Description,
		AutoApprovalThreshold: DefaultAutoApprovalThreshold,
	}
	for i, l := range in.Legs {
		leg, err := buildLeg(l)
		if err != nil {
			return nil, utils.Validation(fmt.Sprintf("leg %d: %s", i+1, err.Error()))
		}
		j.Legs = append(j.Legs, leg)
	}

	if err := s.Repo.CreateJourney(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

func buildLeg(in models.CreateLegInput) (models.Leg, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Leg{}, errors.New("name is required")
	}
	if !in.RiskLevel.Valid() {
		return models.Leg{}, fmt.Errorf("unknown risk level %q", in.RiskLevel)
	}
	minExp := in.MinExperienceLevel
	if minExp == 0 {
		minExp = models.MinExperienceLevel
	}
	if minExp < models.MinExperienceLevel || minExp > models.MaxExperienceLevel {
		return models.Leg{}, fmt.Errorf("minimum experience level must be between %d and %d", models.MinExperienceLevel, models.MaxExperienceLevel)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return models.Leg{}, errors.New("end date is before start date")
	}
	return models.Leg{
		Name:               name,
		MinExperienceLevel: minExp,
		RiskLevel:          in.RiskLevel,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
	}, nil
}

func (s *DefaultJourneyService) GetJourney(ctx context.Context, journeyID string) (*models.Journey, error) {
	j, err := s.Repo.GetJourney(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, utils.NotFound("journey not found")
	}
	return j, nil
}

// ConfigureAutoApproval stores the journey's auto-approval rule. Enabling it requires at
// least one requirement to score against.
func (s *DefaultJourneyService) ConfigureAutoApproval(ctx context.Context, ownerID, journeyID string, in models.AutoApprovalInput) (*models.Journey, error) {
	if in.Threshold < 0 || in.Threshold > 100 {
		return nil, utils.Validation("threshold must be between 0 and 100")
	}
	if in.AutoDenyBelow != nil {
		if *in.AutoDenyBelow < 0 || *in.AutoDenyBelow >= in.Threshold {
			return nil, utils.Validation("autoDenyBelow must be at least 0 and below the threshold")
		}
	}
	if _, err := s.owned(ctx, ownerID, journeyID); err != nil {
		return nil, err
	}

	err := s.Repo.UpdateAutoApproval(ctx, journeyID, in)
	switch {
	case errors.Is(err, journeyRepo.ErrNoRequirements):
		return nil, utils.Validation("add at least one requirement before enabling auto-approval")
	case journeyRepo.IsNotFound(err):
		return nil, utils.NotFound("journey not found")
	case err != nil:
		return nil, err
	}
	return s.GetJourney(ctx, journeyID)
}

// owned loads the journey and checks that ownerID owns it.
func (s *DefaultJourneyService) owned(ctx context.Context, ownerID, journeyID string) (*models.Journey, error) {
	j, err := s.GetJourney(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	if j.OwnerID != ownerID {
		return nil, utils.Forbidden("only the journey owner can change it")
	}
	return j, nil
}
