package session

import (
	"context"

	"sailsmart/models"
)

// Caller identifies who is asking: the authenticated user (empty when logged out) and
// the session id presented in the kind's cookie (empty when absent).
type Caller struct {
	UserID    string
	SessionID string
}

// SessionService reads and writes onboarding sessions on behalf of a caller. A nil
// session with a nil error means the caller has no session.
type SessionService interface {
	Get(ctx context.Context, kind models.SessionKind, caller Caller) (*models.OnboardingSession, error)
	Upsert(ctx context.Context, kind models.SessionKind, caller Caller, in models.SessionUpsertRequest) (*models.OnboardingSession, error)
	Patch(ctx context.Context, kind models.SessionKind, caller Caller, in models.SessionPatchRequest) (*models.OnboardingSession, error)
	ApplyEvent(ctx context.Context, kind models.SessionKind, caller Caller, event models.OnboardingEvent) (*models.OnboardingSession, error)
	Delete(ctx context.Context, kind models.SessionKind, caller Caller) error
}

// LinkResult records what a linking pass did per session kind.
type LinkResult struct {
	Linked []models.SessionKind
	Failed map[models.SessionKind]error
}

// Linker attaches anonymous sessions to a freshly authenticated user.
type Linker interface {
	LinkSessions(ctx context.Context, userID string, cookies map[models.SessionKind]string) LinkResult
	PendingSessions(ctx context.Context, userID string, kind models.SessionKind, states []models.OnboardingState) ([]models.OnboardingSession, error)
	ResolveRedirect(ctx context.Context, user *models.User) string
}
