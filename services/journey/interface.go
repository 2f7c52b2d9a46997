package journey

import (
	"context"

	journeyRepo "sailsmart/database/repository/journey"
	registrationRepo "sailsmart/database/repository/registration"
	"sailsmart/models"
)

const (
	DefaultRequirementWeight     = 5
	DefaultAutoApprovalThreshold = 80
)

// JourneyService manages journeys, their requirements and auto-approval settings.
type JourneyService interface {
	CreateJourney(ctx context.Context, owner *models.User, in models.CreateJourneyInput) (*models.Journey, error)
	GetJourney(ctx context.Context, journeyID string) (*models.Journey, error)
	ConfigureAutoApproval(ctx context.Context, ownerID, journeyID string, in models.AutoApprovalInput) (*models.Journey, error)

	ListRequirements(ctx context.Context, journeyID string) ([]models.JourneyRequirement, error)
	CreateRequirement(ctx context.Context, ownerID, journeyID string, in models.RequirementInput) (*models.JourneyRequirement, error)
	UpdateRequirement(ctx context.Context, ownerID, journeyID, requirementID string, in models.RequirementInput) (*models.JourneyRequirement, error)
	DeleteRequirement(ctx context.Context, ownerID, journeyID, requirementID string) error
}

// DefaultJourneyService is the production implementation.
type DefaultJourneyService struct {
	Repo          journeyRepo.JourneyRepository
	Registrations registrationRepo.RegistrationRepository
}

func NewJourneyService(repo journeyRepo.JourneyRepository, regs registrationRepo.RegistrationRepository) *DefaultJourneyService {
	return &DefaultJourneyService{Repo: repo, Registrations: regs}
}
