package journeyRepo

import (
	"context"
	"errors"

	"sailsmart/models"
)

var (
	// ErrNoRequirements is returned when auto-approval is enabled on a journey without requirements.
	ErrNoRequirements = errors.New("journey has no requirements")
	// ErrLastRequirement is returned when deleting the only requirement of a journey that must keep one.
	ErrLastRequirement = errors.New("cannot delete the last requirement")
)

// JourneyRepository stores journeys, their legs and their requirements.
type JourneyRepository interface {
	CreateJourney(ctx context.Context, j *models.Journey) error
	GetJourney(ctx context.Context, id string) (*models.Journey, error)
	GetLeg(ctx context.Context, legID string) (*models.Leg, error)
	// UpdateAutoApproval writes the settings; enabling with zero requirements fails with ErrNoRequirements.
	UpdateAutoApproval(ctx context.Context, journeyID string, in models.AutoApprovalInput) error

	ListRequirements(ctx context.Context, journeyID string) ([]models.JourneyRequirement, error)
	CountRequirements(ctx context.Context, journeyID string) (int64, error)
	GetRequirement(ctx context.Context, journeyID, requirementID string) (*models.JourneyRequirement, error)
	CreateRequirement(ctx context.Context, req *models.JourneyRequirement) error
	UpdateRequirement(ctx context.Context, req *models.JourneyRequirement) error
	// DeleteRequirement removes the requirement and every answer given to it. While the
	// journey has auto-approval enabled, removing its only requirement fails with
	// ErrLastRequirement.
	DeleteRequirement(ctx context.Context, journeyID, requirementID string) error
}
