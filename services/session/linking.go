package session

import (
	"context"

	"sailsmart/models"
	"sailsmart/utils"

	"go.uber.org/zap"
)

// Post-login destinations.
const (
	RedirectOwnerOnboarding = "/onboarding/owner"
	RedirectCrewOnboarding  = "/onboarding/crew"
	RedirectProfileSetup    = "/profile-setup"
	RedirectOwnerDashboard  = "/owner/dashboard"
	RedirectCrewDashboard   = "/crew/dashboard"
)

var (
	ownerPendingStates = []models.OnboardingState{
		models.StateConsentPending, models.StateProfilePending,
		models.StateBoatPending, models.StateJourneyPending,
	}
	prospectPendingStates = []models.OnboardingState{
		models.StateConsentPending, models.StateProfilePending,
	}
)

// LinkSessions attaches every presented unlinked session to userID and resets it to
// consent_pending. Failures are logged and reported in the result, never returned.
func (s *DefaultSessionService) LinkSessions(ctx context.Context, userID string, cookies map[models.SessionKind]string) LinkResult {
	res := LinkResult{Failed: map[models.SessionKind]error{}}
	if userID == "" {
		return res
	}
	logger := utils.GetLogger()
	now := s.now()

	for _, kind := range models.SessionKinds {
		sessionID := cookies[kind]
		if sessionID == "" {
			continue
		}
		linked, err := s.Repo.LinkAnonymous(ctx, kind, sessionID, userID, now, now.Add(s.TTL))
		if err != nil {
			logger.Error("failed to link onboarding session",
				zap.String("kind", string(kind)),
				zap.String("sessionID", sessionID),
				zap.String("userID", userID),
				zap.Error(err))
			res.Failed[kind] = err
			continue
		}
		if linked {
			logger.Info("linked onboarding session",
				zap.String("kind", string(kind)),
				zap.String("sessionID", sessionID),
				zap.String("userID", userID))
			res.Linked = append(res.Linked, kind)
		}
	}
	return res
}

func (s *DefaultSessionService) PendingSessions(ctx context.Context, userID string, kind models.SessionKind, states []models.OnboardingState) ([]models.OnboardingSession, error) {
	return s.Repo.FindPendingForUser(ctx, kind, userID, states, s.now())
}

// ResolveRedirect picks where a freshly signed-in user lands. Unfinished onboarding
// wins, then incomplete profiles, then the dashboard for the user's role. Lookup errors
// fall through to the profile-based choice.
func (s *DefaultSessionService) ResolveRedirect(ctx context.Context, user *models.User) string {
	logger := utils.GetLogger()

	owner, err := s.PendingSessions(ctx, user.ID, models.SessionKindOwner, ownerPendingStates)
	if err != nil {
		logger.Warn("pending owner session lookup failed", zap.String("userID", user.ID), zap.Error(err))
	} else if len(owner) > 0 {
		return RedirectOwnerOnboarding
	}

	prospect, err := s.PendingSessions(ctx, user.ID, models.SessionKindProspect, prospectPendingStates)
	if err != nil {
		logger.Warn("pending prospect session lookup failed", zap.String("userID", user.ID), zap.Error(err))
	} else if len(prospect) > 0 {
		return RedirectCrewOnboarding
	}

	if !user.ProfileComplete() {
		return RedirectProfileSetup
	}
	if user.HasRole(models.RoleOwner) {
		return RedirectOwnerDashboard
	}
	return RedirectCrewDashboard
}
