package sessionRepo

import (
	"context"
	"errors"
	"time"

	"sailsmart/models"
)

// ErrDuplicateSession is returned by Insert when the session id already exists.
var ErrDuplicateSession = errors.New("session already exists")

// Update describes a partial write to a session. Zero-valued fields are not written.
type Update struct {
	// FromState, when set, makes the write conditional on the stored state.
	FromState           *models.OnboardingState
	State               *models.OnboardingState
	Conversation        []models.ConversationMessage
	AppendConversation  []models.ConversationMessage
	GatheredPreferences map[string]interface{}
	MergePreferences    map[string]interface{}
	Email               *string
	LastActiveAt        time.Time
	ExpiresAt           time.Time
}

// SessionRepository stores onboarding sessions, one collection per kind.
//
// Methods come in two groups. FindByID, UpdateByCookie and DeleteByCookie address a
// session by id alone and must only be used once the caller has proven possession of
// the session cookie. FindOwned, UpdateOwned and DeleteOwned always filter on user_id
// as well.
type SessionRepository interface {
	Insert(ctx context.Context, s *models.OnboardingSession) error

	FindByID(ctx context.Context, kind models.SessionKind, sessionID string) (*models.OnboardingSession, error)
	UpdateByCookie(ctx context.Context, kind models.SessionKind, sessionID string, upd Update) (*models.OnboardingSession, error)
	DeleteByCookie(ctx context.Context, kind models.SessionKind, sessionID string) error

	FindOwned(ctx context.Context, kind models.SessionKind, sessionID, userID string) (*models.OnboardingSession, error)
	UpdateOwned(ctx context.Context, kind models.SessionKind, sessionID, userID string, upd Update) (*models.OnboardingSession, error)
	DeleteOwned(ctx context.Context, kind models.SessionKind, sessionID, userID string) error

	// LinkAnonymous attaches userID to an unexpired, unlinked session and resets its
	// state to consent_pending. It reports whether a row changed.
	LinkAnonymous(ctx context.Context, kind models.SessionKind, sessionID, userID string, now, expiresAt time.Time) (bool, error)
	// FindPendingForUser lists the user's unexpired sessions in any of the given states.
	FindPendingForUser(ctx context.Context, kind models.SessionKind, userID string, states []models.OnboardingState, now time.Time) ([]models.OnboardingSession, error)
}
