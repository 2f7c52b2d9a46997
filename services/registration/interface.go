package registration

import (
	"context"
	"time"

	documentRepo "sailsmart/database/repository/document"
	journeyRepo "sailsmart/database/repository/journey"
	registrationRepo "sailsmart/database/repository/registration"
	"sailsmart/models"
	"sailsmart/services/matching"
)

// RegistrationService manages crew registrations from submission to decision.
type RegistrationService interface {
	Submit(ctx context.Context, crewID string, in models.SubmitRegistrationInput) (*models.Registration, error)
	// Evaluate returns the match score; callers are the crew member or the journey owner.
	Evaluate(ctx context.Context, callerID, registrationID string) (*models.ScoreResponse, error)
	Decide(ctx context.Context, ownerID, registrationID string, in models.DecisionInput) (*models.Registration, error)
	Cancel(ctx context.Context, crewID, registrationID string) (*models.Registration, error)
	UpdateAnswers(ctx context.Context, crewID, registrationID string, in models.UpdateAnswersInput) (*models.Registration, error)
	ListByJourney(ctx context.Context, ownerID, journeyID string) ([]models.Registration, error)
}

// Dispatcher hands a decision notification to the outbound queue.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.DecisionNotification) error
}

// ProfileSource resolves the crew profile a registration is matched against.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
}

// ScoreCache keeps evaluation results keyed by an input fingerprint. Cache failures are
// never fatal to the caller.
type ScoreCache interface {
	Get(ctx context.Context, key string) (*models.ScoreResponse, bool)
	Put(ctx context.Context, key string, score models.ScoreResponse)
}

// DefaultRegistrationService is the production implementation.
type DefaultRegistrationService struct {
	Journeys      journeyRepo.JourneyRepository
	Registrations registrationRepo.RegistrationRepository
	Documents     documentRepo.DocumentRepository
	Profiles      ProfileSource
	Evaluator     *matching.Evaluator
	Cache         ScoreCache
	Notifier      Dispatcher
	// Now is overridable in tests.
	Now func() time.Time
}

func (s *DefaultRegistrationService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}
