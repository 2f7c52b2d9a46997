package registration

import (
	"context"

	registrationRepo "sailsmart/database/repository/registration"
	"sailsmart/models"
	"sailsmart/services/matching"
	"sailsmart/utils"

	"go.uber.org/zap"
)

// Submit creates a pending registration, scores it and applies the journey's
// auto-approval rule. A scoring failure leaves the registration pending for the owner.
func (s *DefaultRegistrationService) Submit(ctx context.Context, crewID string, in models.SubmitRegistrationInput) (*models.Registration, error) {
	logger := utils.GetLogger()

	leg, err := s.Journeys.GetLeg(ctx, in.LegID)
	if err != nil {
		return nil, err
	}
	if leg == nil {
		return nil, utils.NotFound("leg not found")
	}
	journey, err := s.Journeys.GetJourney(ctx, leg.JourneyID)
	if err != nil {
		return nil, err
	}
	if journey == nil {
		return nil, utils.NotFound("journey not found")
	}
	if journey.OwnerID == crewID {
		return nil, utils.Validation("owners cannot register for their own journey")
	}

	active, err := s.Registrations.FindActive(ctx, leg.ID, crewID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, utils.Conflict("an active registration for this leg already exists")
	}

	reqs, err := s.Journeys.ListRequirements(ctx, journey.ID)
	if err != nil {
		return nil, err
	}
	answers, err := buildAnswers(in.Answers, reqs)
	if err != nil {
		return nil, err
	}

	reg := &models.Registration{
		JourneyID:  journey.ID,
		LegID:      leg.ID,
		CrewUserID: crewID,
		Status:     models.StatusPendingApproval,
		Notes:      in.Notes,
		Answers:    answers,
	}
	if err := s.Registrations.Create(ctx, reg); err != nil {
		return nil, err
	}

	ev, err := s.loadEvaluation(ctx, reg, journey)
	if err == nil {
		var score *models.ScoreResponse
		if score, err = s.score(ctx, reg, ev); err == nil {
			s.applyAutoDecision(ctx, journey, reg, matching.Result{Score: score.Score, PassesRequired: score.PassesRequired})
		}
	}
	if err != nil {
		logger.Warn("Registration left pending without a score",
			zap.String("registrationId", reg.ID), zap.Error(err))
	}

	return s.reload(ctx, reg.ID)
}

func (s *DefaultRegistrationService) applyAutoDecision(ctx context.Context, journey *models.Journey, reg *models.Registration, res matching.Result) {
	status, auto := matching.Decide(journey, res)
	if status == models.StatusPendingApproval {
		return
	}
	ok, err := s.Registrations.ApplyTransition(ctx, reg.ID, registrationRepo.Transition{
		From:         models.StatusPendingApproval,
		To:           status,
		AutoApproved: auto,
		At:           s.now(),
	})
	if err != nil {
		utils.GetLogger().Error("Failed to apply automatic decision",
			zap.String("registrationId", reg.ID), zap.Error(err))
		return
	}
	if !ok {
		// Cancelled or decided in the meantime.
		return
	}
	reg.Status = status
	s.notify(ctx, journey, reg, status, auto)
}

func (s *DefaultRegistrationService) Evaluate(ctx context.Context, callerID, registrationID string) (*models.ScoreResponse, error) {
	reg, journey, err := s.load(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if callerID != reg.CrewUserID && callerID != journey.OwnerID {
		return nil, utils.Forbidden("not allowed to view this registration")
	}

	ev, err := s.loadEvaluation(ctx, reg, journey)
	if err != nil {
		return nil, err
	}
	return s.score(ctx, reg, ev)
}

// Decide records the owner's approve or deny decision. Decided registrations are final.
func (s *DefaultRegistrationService) Decide(ctx context.Context, ownerID, registrationID string, in models.DecisionInput) (*models.Registration, error) {
	if in.Status != models.StatusApproved && in.Status != models.StatusNotApproved {
		return nil, utils.Validation("status must be Approved or Not approved")
	}
	reg, journey, err := s.load(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if journey.OwnerID != ownerID {
		return nil, utils.Forbidden("only the journey owner can decide on registrations")
	}
	if reg.Status != models.StatusPendingApproval {
		return nil, utils.Conflict("registration is already " + string(reg.Status))
	}

	notes := in.Notes
	ok, err := s.Registrations.ApplyTransition(ctx, reg.ID, registrationRepo.Transition{
		From:  models.StatusPendingApproval,
		To:    in.Status,
		Notes: &notes,
		At:    s.now(),
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.Conflict("registration changed while deciding")
	}
	s.notify(ctx, journey, reg, in.Status, false)
	return s.reload(ctx, reg.ID)
}

func (s *DefaultRegistrationService) Cancel(ctx context.Context, crewID, registrationID string) (*models.Registration, error) {
	reg, _, err := s.load(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.CrewUserID != crewID {
		return nil, utils.Forbidden("only the applicant can cancel a registration")
	}
	if reg.Status != models.StatusPendingApproval {
		return nil, utils.Conflict("only pending registrations can be cancelled")
	}

	ok, err := s.Registrations.ApplyTransition(ctx, reg.ID, registrationRepo.Transition{
		From: models.StatusPendingApproval,
		To:   models.StatusCancelled,
		At:   s.now(),
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.Conflict("registration changed while cancelling")
	}
	return s.reload(ctx, reg.ID)
}

// UpdateAnswers replaces the full answer set of a pending registration. The stored score is cleared
// and the next evaluation runs against the new answers.
func (s *DefaultRegistrationService) UpdateAnswers(ctx context.Context, crewID, registrationID string, in models.UpdateAnswersInput) (*models.Registration, error) {
	reg, journey, err := s.load(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.CrewUserID != crewID {
		return nil, utils.Forbidden("only the applicant can edit answers")
	}
	reqs, err := s.Journeys.ListRequirements(ctx, journey.ID)
	if err != nil {
		return nil, err
	}
	answers, err := buildAnswers(in.Answers, reqs)
	if err != nil {
		return nil, err
	}

	ok, err := s.Registrations.ReplaceAnswers(ctx, reg.ID, answers)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.Conflict("only pending registrations can be edited")
	}
	return s.reload(ctx, reg.ID)
}

func (s *DefaultRegistrationService) ListByJourney(ctx context.Context, ownerID, journeyID string) ([]models.Registration, error) {
	journey, err := s.Journeys.GetJourney(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	if journey == nil {
		return nil, utils.NotFound("journey not found")
	}
	if journey.OwnerID != ownerID {
		return nil, utils.Forbidden("only the journey owner can list registrations")
	}
	return s.Registrations.ListByJourney(ctx, journeyID)
}

// notify enqueues the decision for the crew member. Failures are logged; the decision stands.
func (s *DefaultRegistrationService) notify(ctx context.Context, journey *models.Journey, reg *models.Registration, status models.RegistrationStatus, auto bool) {
	if s.Notifier == nil {
		return
	}
	n := models.DecisionNotification{
		RegistrationID: reg.ID,
		CrewUserID:     reg.CrewUserID,
		JourneyID:      journey.ID,
		JourneyName:    journey.Name,
		OwnerName:      journey.OwnerName,
		Status:         status,
		AutoApproved:   auto,
		DecidedAt:      s.now(),
	}
	if err := s.Notifier.Dispatch(ctx, n); err != nil {
		utils.GetLogger().Error("Failed to dispatch decision notification",
			zap.String("registrationId", reg.ID),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}

func (s *DefaultRegistrationService) load(ctx context.Context, registrationID string) (*models.Registration, *models.Journey, error) {
	reg, err := s.Registrations.Get(ctx, registrationID)
	if err != nil {
		return nil, nil, err
	}
	if reg == nil {
		return nil, nil, utils.NotFound("registration not found")
	}
	journey, err := s.Journeys.GetJourney(ctx, reg.JourneyID)
	if err != nil {
		return nil, nil, err
	}
	if journey == nil {
		return nil, nil, utils.NotFound("journey not found")
	}
	return reg, journey, nil
}

func (s *DefaultRegistrationService) reload(ctx context.Context, id string) (*models.Registration, error) {
	reg, err := s.Registrations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, utils.NotFound("registration not found")
	}
	return reg, nil
}
