package session

import (
	"context"

	sessionRepo "sailsmart/database/repository/session"
	"sailsmart/models"
	"sailsmart/utils"

	"go.uber.org/zap"
)

// scope is an authorized handle on one session. The two implementations keep the
// privileged cookie path and the per-user path apart.
type scope interface {
	current() *models.OnboardingSession
	update(ctx context.Context, upd sessionRepo.Update) (*models.OnboardingSession, error)
	remove(ctx context.Context) error
}

// userScope acts as the authenticated owner; every store call filters on user_id.
type userScope struct {
	repo   sessionRepo.SessionRepository
	kind   models.SessionKind
	userID string
	sess   *models.OnboardingSession
}

func (s *userScope) current() *models.OnboardingSession { return s.sess }

func (s *userScope) update(ctx context.Context, upd sessionRepo.Update) (*models.OnboardingSession, error) {
	return s.repo.UpdateOwned(ctx, s.kind, s.sess.SessionID, s.userID, upd)
}

func (s *userScope) remove(ctx context.Context) error {
	return s.repo.DeleteOwned(ctx, s.kind, s.sess.SessionID, s.userID)
}

// cookieScope acts with service privileges for a cookie holder. It is only built by
// authorize, after the presented id was found in the store.
type cookieScope struct {
	repo sessionRepo.SessionRepository
	kind models.SessionKind
	sess *models.OnboardingSession
}

func (s *cookieScope) current() *models.OnboardingSession { return s.sess }

func (s *cookieScope) update(ctx context.Context, upd sessionRepo.Update) (*models.OnboardingSession, error) {
	return s.repo.UpdateByCookie(ctx, s.kind, s.sess.SessionID, upd)
}

func (s *cookieScope) remove(ctx context.Context) error {
	return s.repo.DeleteByCookie(ctx, s.kind, s.sess.SessionID)
}

// authorize resolves the caller's session and the path allowed to touch it.
//
//   - no cookie: no session
//   - unlinked session: the cookie holder owns it
//   - linked session, authenticated as that user: user path
//   - linked session, authenticated as someone else: forbidden
//   - linked session, logged out: the cookie is proof of ownership
//
// Expired sessions are deleted here and reported as absent.
func (s *DefaultSessionService) authorize(ctx context.Context, kind models.SessionKind, caller Caller) (scope, error) {
	if !kind.Valid() {
		return nil, utils.Validation("unknown session kind")
	}
	if caller.SessionID == "" {
		return nil, nil
	}

	if caller.UserID != "" {
		owned, err := s.Repo.FindOwned(ctx, kind, caller.SessionID, caller.UserID)
		if err != nil {
			return nil, utils.Internal("failed to load session", err)
		}
		if owned != nil {
			if s.expireIfStale(ctx, kind, owned) {
				return nil, nil
			}
			return &userScope{repo: s.Repo, kind: kind, userID: caller.UserID, sess: owned}, nil
		}
	}

	sess, err := s.Repo.FindByID(ctx, kind, caller.SessionID)
	if err != nil {
		return nil, utils.Internal("failed to load session", err)
	}
	if sess == nil {
		return nil, nil
	}
	if s.expireIfStale(ctx, kind, sess) {
		return nil, nil
	}
	if !sess.IsAnonymous() && caller.UserID != "" && *sess.UserID != caller.UserID {
		return nil, utils.Forbidden("session belongs to another user")
	}
	return &cookieScope{repo: s.Repo, kind: kind, sess: sess}, nil
}

// expireIfStale deletes an expired session and reports whether it did.
func (s *DefaultSessionService) expireIfStale(ctx context.Context, kind models.SessionKind, sess *models.OnboardingSession) bool {
	if !sess.Expired(s.now()) {
		return false
	}
	if err := s.Repo.DeleteByCookie(ctx, kind, sess.SessionID); err != nil {
		utils.GetLogger().Warn("failed to delete expired session",
			zap.String("kind", string(kind)),
			zap.String("sessionID", sess.SessionID),
			zap.Error(err))
	}
	return true
}
