package registrationRepo

import (
	"context"
	"time"

	"sailsmart/models"
)

// Transition is a conditional status change applied only while the stored status equals From.
type Transition struct {
	From         models.RegistrationStatus
	To           models.RegistrationStatus
	AutoApproved bool
	Notes        *string
	At           time.Time
}

// RegistrationRepository stores crew registrations and their answers.
type RegistrationRepository interface {
	// Create inserts the registration together with its answers.
	Create(ctx context.Context, reg *models.Registration) error
	Get(ctx context.Context, id string) (*models.Registration, error)
	// FindActive returns the crew member's pending or approved registration for a leg.
	FindActive(ctx context.Context, legID, crewUserID string) (*models.Registration, error)
	ListByJourney(ctx context.Context, journeyID string) ([]models.Registration, error)

	SaveScore(ctx context.Context, id string, score int, reasoning string, passesRequired bool) error
	// ClearJourneyScores drops stored scores of the journey's pending registrations.
	ClearJourneyScores(ctx context.Context, journeyID string) error
	// ApplyTransition reports false when the stored status no longer equals t.From.
	ApplyTransition(ctx context.Context, id string, t Transition) (bool, error)
	// ReplaceAnswers swaps the answer set of a pending registration and clears its score.
	// Answers to requirements missing from the new set are removed.
	// It reports false when the registration is not pending.
	ReplaceAnswers(ctx context.Context, id string, answers []models.RegistrationAnswer) (bool, error)
}
