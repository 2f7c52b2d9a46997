package session

import (
	"context"
	"errors"
	"sync"
	"time"

	sessionRepo "sailsmart/database/repository/session"
	"sailsmart/models"
)

// memRepo is an in-memory SessionRepository with the same matching rules as the Mongo one.
type memRepo struct {
	mu      sync.Mutex
	rows    map[models.SessionKind]map[string]*models.OnboardingSession
	calls   []string
	linkErr error
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[models.SessionKind]map[string]*models.OnboardingSession{
		models.SessionKindOwner:    {},
		models.SessionKindProspect: {},
	}}
}

func clone(s *models.OnboardingSession) *models.OnboardingSession {
	cp := *s
	cp.Conversation = append([]models.ConversationMessage(nil), s.Conversation...)
	cp.GatheredPreferences = map[string]interface{}{}
	for k, v := range s.GatheredPreferences {
		cp.GatheredPreferences[k] = v
	}
	if s.UserID != nil {
		uid := *s.UserID
		cp.UserID = &uid
	}
	return &cp
}

func (m *memRepo) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *memRepo) Insert(ctx context.Context, s *models.OnboardingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Insert")
	if _, ok := m.rows[s.Kind][s.SessionID]; ok {
		return sessionRepo.ErrDuplicateSession
	}
	m.rows[s.Kind][s.SessionID] = clone(s)
	return nil
}

func (m *memRepo) FindByID(ctx context.Context, kind models.SessionKind, id string) (*models.OnboardingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindByID")
	if s, ok := m.rows[kind][id]; ok {
		return clone(s), nil
	}
	return nil, nil
}

func (m *memRepo) FindOwned(ctx context.Context, kind models.SessionKind, id, userID string) (*models.OnboardingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindOwned")
	if s, ok := m.rows[kind][id]; ok && s.UserID != nil && *s.UserID == userID {
		return clone(s), nil
	}
	return nil, nil
}

func (m *memRepo) UpdateByCookie(ctx context.Context, kind models.SessionKind, id string, upd sessionRepo.Update) (*models.OnboardingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateByCookie")
	return m.apply(m.rows[kind][id], upd), nil
}

func (m *memRepo) UpdateOwned(ctx context.Context, kind models.SessionKind, id, userID string, upd sessionRepo.Update) (*models.OnboardingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateOwned")
	s := m.rows[kind][id]
	if s == nil || s.UserID == nil || *s.UserID != userID {
		return nil, nil
	}
	return m.apply(s, upd), nil
}

func (m *memRepo) apply(s *models.OnboardingSession, upd sessionRepo.Update) *models.OnboardingSession {
	if s == nil {
		return nil
	}
	if upd.FromState != nil && s.OnboardingState != *upd.FromState {
		return nil
	}
	if upd.State != nil {
		s.OnboardingState = *upd.State
	}
	if upd.Conversation != nil {
		s.Conversation = upd.Conversation
	}
	s.Conversation = append(s.Conversation, upd.AppendConversation...)
	if upd.GatheredPreferences != nil {
		s.GatheredPreferences = upd.GatheredPreferences
	}
	for k, v := range upd.MergePreferences {
		s.GatheredPreferences[k] = v
	}
	if upd.Email != nil {
		s.Email = upd.Email
	}
	if !upd.LastActiveAt.IsZero() {
		s.LastActiveAt = upd.LastActiveAt
	}
	if !upd.ExpiresAt.IsZero() {
		s.ExpiresAt = upd.ExpiresAt
	}
	return clone(s)
}

func (m *memRepo) DeleteByCookie(ctx context.Context, kind models.SessionKind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteByCookie")
	delete(m.rows[kind], id)
	return nil
}

func (m *memRepo) DeleteOwned(ctx context.Context, kind models.SessionKind, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteOwned")
	if s, ok := m.rows[kind][id]; ok && s.UserID != nil && *s.UserID == userID {
		delete(m.rows[kind], id)
	}
	return nil
}

func (m *memRepo) LinkAnonymous(ctx context.Context, kind models.SessionKind, id, userID string, now, expiresAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("LinkAnonymous")
	if m.linkErr != nil {
		return false, m.linkErr
	}
	s, ok := m.rows[kind][id]
	if !ok || s.UserID != nil || !s.ExpiresAt.After(now) {
		return false, nil
	}
	uid := userID
	s.UserID = &uid
	s.OnboardingState = models.StateConsentPending
	s.LastActiveAt = now
	s.ExpiresAt = expiresAt
	return true, nil
}

func (m *memRepo) FindPendingForUser(ctx context.Context, kind models.SessionKind, userID string, states []models.OnboardingState, now time.Time) ([]models.OnboardingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.OnboardingSession
	for _, s := range m.rows[kind] {
		if s.UserID == nil || *s.UserID != userID || !s.ExpiresAt.After(now) {
			continue
		}
		for _, st := range states {
			if s.OnboardingState == st {
				out = append(out, *clone(s))
				break
			}
		}
	}
	return out, nil
}

func (m *memRepo) count(kind models.SessionKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows[kind])
}

var errStoreDown = errors.New("store unavailable")
