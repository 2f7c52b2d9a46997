package journey

import (
	"context"
	"errors"
	"strings"

	journeyRepo "sailsmart/database/repository/journey"
	"sailsmart/models"
	"sailsmart/utils"

	"go.uber.org/zap"
)

func (s *DefaultJourneyService) ListRequirements(ctx context.Context, journeyID string) ([]models.JourneyRequirement, error) {
	if _, err := s.GetJourney(ctx, journeyID); err != nil {
		return nil, err
	}
	return s.Repo.ListRequirements(ctx, journeyID)
}

func (s *DefaultJourneyService) CreateRequirement(ctx context.Context, ownerID, journeyID string, in models.RequirementInput) (*models.JourneyRequirement, error) {
	req := models.JourneyRequirement{JourneyID: journeyID}
	if err := applyRequirementInput(&req, in); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, ownerID, journeyID); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateRequirement(ctx, &req); err != nil {
		return nil, err
	}
	s.invalidateScores(ctx, journeyID)
	return &req, nil
}

func (s *DefaultJourneyService) UpdateRequirement(ctx context.Context, ownerID, journeyID, requirementID string, in models.RequirementInput) (*models.JourneyRequirement, error) {
	if _, err := s.owned(ctx, ownerID, journeyID); err != nil {
		return nil, err
	}
	req, err := s.Repo.GetRequirement(ctx, journeyID, requirementID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, utils.NotFound("requirement not found")
	}
	if err := applyRequirementInput(req, in); err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateRequirement(ctx, req); err != nil {
		return nil, err
	}
	s.invalidateScores(ctx, journeyID)
	return req, nil
}

// DeleteRequirement removes the requirement and its answers. A journey with auto-approval
// enabled must keep at least one requirement.
func (s *DefaultJourneyService) DeleteRequirement(ctx context.Context, ownerID, journeyID, requirementID string) error {
	if _, err := s.owned(ctx, ownerID, journeyID); err != nil {
		return err
	}

	err := s.Repo.DeleteRequirement(ctx, journeyID, requirementID)
	switch {
	case errors.Is(err, journeyRepo.ErrLastRequirement):
		return utils.Validation("disable auto-approval before deleting the last requirement")
	case journeyRepo.IsNotFound(err):
		return utils.NotFound("requirement not found")
	case err != nil:
		return err
	}
	s.invalidateScores(ctx, journeyID)
	return nil
}

// invalidateScores drops stored scores of pending registrations so the next evaluation
// reflects the edited requirements.
func (s *DefaultJourneyService) invalidateScores(ctx context.Context, journeyID string) {
	if s.Registrations == nil {
		return
	}
	if err := s.Registrations.ClearJourneyScores(ctx, journeyID); err != nil {
		utils.GetLogger().Warn("Failed to clear registration scores",
			zap.String("journeyId", journeyID), zap.Error(err))
	}
}

// applyRequirementInput validates in and copies it onto req.
func applyRequirementInput(req *models.JourneyRequirement, in models.RequirementInput) error {
	if !in.RequirementType.Valid() {
		return utils.Validation("unknown requirement type " + string(in.RequirementType))
	}

	weight := DefaultRequirementWeight
	if in.Weight != nil {
		weight = *in.Weight
	}
	if weight < 0 || weight > models.MaxRequirementWeight {
		return utils.Validation("weight must be between 0 and 10")
	}
	if in.Order < 0 {
		return utils.Validation("order cannot be negative")
	}

	question := trimmed(in.QuestionText)
	skill := trimmed(in.SkillName)
	criteria := trimmed(in.QualificationCriteria)

	switch in.RequirementType {
	case models.RequirementQuestion:
		if question == nil {
			return utils.Validation("question requirements need questionText")
		}
		skill = nil
	case models.RequirementSkill:
		if skill == nil {
			return utils.Validation("skill requirements need skillName")
		}
		question, criteria = nil, nil
	default:
		question, skill, criteria = nil, nil, nil
	}

	if in.RequirementType != models.RequirementPassport && (in.RequirePhotoValidation || in.PassConfidenceScore != nil) {
		return utils.Validation("photo validation settings apply to passport requirements only")
	}
	if in.PassConfidenceScore != nil && (*in.PassConfidenceScore < 0 || *in.PassConfidenceScore > 10) {
		return utils.Validation("passConfidenceScore must be between 0 and 10")
	}

	req.RequirementType = in.RequirementType
	req.QuestionText = question
	req.SkillName = skill
	req.QualificationCriteria = criteria
	req.RequirePhotoValidation = in.RequirePhotoValidation
	req.PassConfidenceScore = in.PassConfidenceScore
	req.Weight = weight
	req.IsRequired = in.IsRequired
	req.Order = in.Order
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
