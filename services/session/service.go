package session

import (
	"context"
	"errors"
	"time"

	sessionRepo "sailsmart/database/repository/session"
	"sailsmart/models"
	"sailsmart/utils"
)

// DefaultSessionService implements SessionService and Linker.
type DefaultSessionService struct {
	Repo sessionRepo.SessionRepository
	TTL  time.Duration
	Mode TransitionMode
	// Now is overridable in tests.
	Now func() time.Time
}

func NewSessionService(repo sessionRepo.SessionRepository, ttl time.Duration, mode TransitionMode) *DefaultSessionService {
	return &DefaultSessionService{Repo: repo, TTL: ttl, Mode: mode, Now: time.Now}
}

func (s *DefaultSessionService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// touch stamps a write with activity time and a fresh sliding expiry.
func (s *DefaultSessionService) touch(upd *sessionRepo.Update) {
	now := s.now()
	upd.LastActiveAt = now
	upd.ExpiresAt = now.Add(s.TTL)
}

func (s *DefaultSessionService) Get(ctx context.Context, kind models.SessionKind, caller Caller) (*models.OnboardingSession, error) {
	sc, err := s.authorize(ctx, kind, caller)
	if err != nil || sc == nil {
		return nil, err
	}
	return sc.current(), nil
}

func (s *DefaultSessionService) Upsert(ctx context.Context, kind models.SessionKind, caller Caller, in models.SessionUpsertRequest) (*models.OnboardingSession, error) {
	if caller.SessionID == "" {
		return nil, utils.Validation("session id is required")
	}
	if err := in.Validate(); err != nil {
		return nil, utils.Validation(err.Error())
	}

	sc, err := s.authorize(ctx, kind, caller)
	if err != nil {
		return nil, err
	}
	if sc != nil {
		return s.applyUpsert(ctx, sc, in)
	}

	sess, err := s.newSession(kind, caller, in)
	if err != nil {
		return nil, err
	}
	err = s.Repo.Insert(ctx, sess)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, sessionRepo.ErrDuplicateSession) {
		return nil, utils.Internal("failed to create session", err)
	}

	// Lost the insert race: the row exists now, so write through the update path.
	sc, err = s.authorize(ctx, kind, caller)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, utils.Conflict("session was removed concurrently")
	}
	return s.applyUpsert(ctx, sc, in)
}

func (s *DefaultSessionService) newSession(kind models.SessionKind, caller Caller, in models.SessionUpsertRequest) (*models.OnboardingSession, error) {
	state := models.StateSignupPending
	if in.OnboardingState != nil {
		if !KnownState(kind, *in.OnboardingState) {
			return nil, utils.Validation("unknown onboarding state for this session kind")
		}
		state = *in.OnboardingState
	}

	now := s.now()
	sess := &models.OnboardingSession{
		SessionID:           caller.SessionID,
		Kind:                kind,
		OnboardingState:     state,
		Conversation:        stampMessages(in.Conversation, now),
		GatheredPreferences: in.GatheredPreferences,
		Email:               in.Email,
		ExpiresAt:           now.Add(s.TTL),
		CreatedAt:           now,
		LastActiveAt:        now,
	}
	if caller.UserID != "" {
		uid := caller.UserID
		sess.UserID = &uid
	}
	if sess.Conversation == nil {
		sess.Conversation = []models.ConversationMessage{}
	}
	if sess.GatheredPreferences == nil {
		sess.GatheredPreferences = map[string]interface{}{}
	}
	return sess, nil
}

func (s *DefaultSessionService) applyUpsert(ctx context.Context, sc scope, in models.SessionUpsertRequest) (*models.OnboardingSession, error) {
	cur := sc.current()
	upd := sessionRepo.Update{
		Conversation:        stampMessages(in.Conversation, s.now()),
		GatheredPreferences: in.GatheredPreferences,
		Email:               in.Email,
	}
	if in.OnboardingState != nil && *in.OnboardingState != cur.OnboardingState {
		if err := checkTarget(s.Mode, cur.Kind, cur.OnboardingState, *in.OnboardingState); err != nil {
			return nil, err
		}
		upd.FromState = &cur.OnboardingState
		upd.State = in.OnboardingState
	}
	return s.write(ctx, sc, upd)
}

func (s *DefaultSessionService) Patch(ctx context.Context, kind models.SessionKind, caller Caller, in models.SessionPatchRequest) (*models.OnboardingSession, error) {
	if err := in.Validate(); err != nil {
		return nil, utils.Validation(err.Error())
	}
	sc, err := s.authorize(ctx, kind, caller)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, utils.NotFound("no onboarding session")
	}

	cur := sc.current()
	upd := sessionRepo.Update{
		AppendConversation: stampMessages(in.AppendConversation, s.now()),
		MergePreferences:   in.GatheredPreferences,
		Email:              in.Email,
	}
	if in.OnboardingState != nil && *in.OnboardingState != cur.OnboardingState {
		if err := checkTarget(s.Mode, kind, cur.OnboardingState, *in.OnboardingState); err != nil {
			return nil, err
		}
		upd.FromState = &cur.OnboardingState
		upd.State = in.OnboardingState
	}
	return s.write(ctx, sc, upd)
}

func (s *DefaultSessionService) ApplyEvent(ctx context.Context, kind models.SessionKind, caller Caller, event models.OnboardingEvent) (*models.OnboardingSession, error) {
	if event == models.EventIdentityLinked {
		return nil, utils.Validation("identity_linked is raised by sign-in only")
	}
	sc, err := s.authorize(ctx, kind, caller)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, utils.NotFound("no onboarding session")
	}

	cur := sc.current()
	next, err := Fire(kind, cur.OnboardingState, event)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, sc, sessionRepo.Update{FromState: &cur.OnboardingState, State: &next})
}

func (s *DefaultSessionService) Delete(ctx context.Context, kind models.SessionKind, caller Caller) error {
	sc, err := s.authorize(ctx, kind, caller)
	if err != nil || sc == nil {
		return err
	}
	if err := sc.remove(ctx); err != nil {
		return utils.Internal("failed to delete session", err)
	}
	return nil
}

// write applies upd through the scope. A nil result means a conditional state write lost
// to a concurrent change, or the row vanished.
func (s *DefaultSessionService) write(ctx context.Context, sc scope, upd sessionRepo.Update) (*models.OnboardingSession, error) {
	s.touch(&upd)
	updated, err := sc.update(ctx, upd)
	if err != nil {
		return nil, utils.Internal("failed to update session", err)
	}
	if updated == nil {
		return nil, utils.Conflict("session changed concurrently, reload and retry")
	}
	return updated, nil
}

func stampMessages(msgs []models.ConversationMessage, now time.Time) []models.ConversationMessage {
	for i := range msgs {
		if msgs[i].Timestamp.IsZero() {
			msgs[i].Timestamp = now
		}
	}
	return msgs
}
