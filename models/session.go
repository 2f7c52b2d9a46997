package models

import (
	"fmt"
	"strings"
	"time"
)

// SessionKind selects the onboarding flow a session belongs to. Owner and prospect
// sessions live in separate collections and use separate cookies.
type SessionKind string

const (
	SessionKindOwner    SessionKind = "owner"
	SessionKindProspect SessionKind = "prospect"
)

// CookieName returns the cookie that carries the session id for this kind.
func (k SessionKind) CookieName() string {
	switch k {
	case SessionKindOwner:
		return "owner_session_id"
	case SessionKindProspect:
		return "prospect_session_id"
	}
	return ""
}

func (k SessionKind) Valid() bool {
	return k == SessionKindOwner || k == SessionKindProspect
}

// SessionKinds lists every kind in a stable order.
var SessionKinds = []SessionKind{SessionKindOwner, SessionKindProspect}

type OnboardingState string

const (
	StateSignupPending  OnboardingState = "signup_pending"
	StateConsentPending OnboardingState = "consent_pending"
	StateProfilePending OnboardingState = "profile_pending"
	StateBoatPending    OnboardingState = "boat_pending"
	StateJourneyPending OnboardingState = "journey_pending"
	StateComplete       OnboardingState = "complete"
)

type OnboardingEvent string

const (
	EventSignupCompleted  OnboardingEvent = "signup_completed"
	EventIdentityLinked   OnboardingEvent = "identity_linked"
	EventConsentGiven     OnboardingEvent = "consent_given"
	EventProfileCompleted OnboardingEvent = "profile_completed"
	EventBoatCreated      OnboardingEvent = "boat_created"
	EventBoatSkipped      OnboardingEvent = "boat_skipped"
	EventJourneyCreated   OnboardingEvent = "journey_created"
	EventJourneySkipped   OnboardingEvent = "journey_skipped"
)

// ConversationMessage is one turn of the onboarding assistant conversation.
type ConversationMessage struct {
	Role      string    `json:"role" bson:"role"`
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// OnboardingSession is the server-side record of an in-progress signup.
// SessionID never changes after creation; UserID moves from nil to a value at most once.
type OnboardingSession struct {
	SessionID           string                 `json:"sessionId" bson:"session_id"`
	Kind                SessionKind            `json:"kind" bson:"kind"`
	UserID              *string                `json:"userId" bson:"user_id"`
	OnboardingState     OnboardingState        `json:"onboardingState" bson:"onboarding_state"`
	Conversation        []ConversationMessage  `json:"conversation" bson:"conversation"`
	GatheredPreferences map[string]interface{} `json:"gatheredPreferences" bson:"gathered_preferences"`
	Email               *string                `json:"email,omitempty" bson:"email,omitempty"`
	ExpiresAt           time.Time              `json:"expiresAt" bson:"expires_at"`
	CreatedAt           time.Time              `json:"createdAt" bson:"created_at"`
	LastActiveAt        time.Time              `json:"lastActiveAt" bson:"last_active_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *OnboardingSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// IsAnonymous reports whether the session has not been linked to an account yet.
func (s *OnboardingSession) IsAnonymous() bool {
	return s.UserID == nil || *s.UserID == ""
}

// SessionUpsertRequest is the POST body: conversation turns and preferences gathered so far.
type SessionUpsertRequest struct {
	Conversation        []ConversationMessage  `json:"conversation"`
	GatheredPreferences map[string]interface{} `json:"gatheredPreferences"`
	Email               *string                `json:"email" binding:"omitempty,email"`
	OnboardingState     *OnboardingState       `json:"onboardingState"`
}

// SessionPatchRequest is the PATCH body. Nil fields are left untouched.
type SessionPatchRequest struct {
	OnboardingState     *OnboardingState       `json:"onboardingState"`
	GatheredPreferences map[string]interface{} `json:"gatheredPreferences"`
	AppendConversation  []ConversationMessage  `json:"appendConversation"`
	Email               *string                `json:"email" binding:"omitempty,email"`
}

// SessionEventRequest fires a named onboarding event.
type SessionEventRequest struct {
	Event OnboardingEvent `json:"event" binding:"required"`
}

// MaxConversationMessages bounds how many turns one write may carry.
const MaxConversationMessages = 200

func validatePreferences(prefs map[string]interface{}) error {
	for k := range prefs {
		if k == "" || strings.ContainsAny(k, ".$") {
			return fmt.Errorf("invalid preference key %q", k)
		}
	}
	return nil
}

func validateConversation(msgs []ConversationMessage) error {
	if len(msgs) > MaxConversationMessages {
		return fmt.Errorf("at most %d conversation messages per request", MaxConversationMessages)
	}
	for i, m := range msgs {
		if m.Role != "user" && m.Role != "assistant" && m.Role != "system" {
			return fmt.Errorf("conversation[%d]: unknown role %q", i, m.Role)
		}
	}
	return nil
}

func (r *SessionUpsertRequest) Validate() error {
	if err := validatePreferences(r.GatheredPreferences); err != nil {
		return err
	}
	return validateConversation(r.Conversation)
}

func (r *SessionPatchRequest) Validate() error {
	if err := validatePreferences(r.GatheredPreferences); err != nil {
		return err
	}
	return validateConversation(r.AppendConversation)
}
