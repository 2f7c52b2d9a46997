package handlers

import (
	"net/http"
	"time"

	"sailsmart/models"
	"sailsmart/services/session"
	"sailsmart/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHandler serves the cookie-keyed onboarding session endpoints.
type SessionHandler struct {
	Service session.SessionService
	TTL     time.Duration
	Cookies CookieSettings
}

func NewSessionHandler(svc session.SessionService, ttl time.Duration, cookies CookieSettings) *SessionHandler {
	return &SessionHandler{Service: svc, TTL: ttl, Cookies: cookies}
}

func (h *SessionHandler) caller(c *gin.Context) (models.SessionKind, session.Caller, bool) {
	kind := models.SessionKind(c.Param("kind"))
	if !kind.Valid() {
		utils.RespondError(c, utils.Validation("session kind must be owner or prospect"))
		return "", session.Caller{}, false
	}
	return kind, session.Caller{UserID: currentUserID(c), SessionID: sessionCookie(c, kind)}, true
}

// GetSession handles GET /api/sessions/:kind. A caller without a session gets a null body.
func (h *SessionHandler) GetSession(c *gin.Context) {
	kind, caller, ok := h.caller(c)
	if !ok {
		return
	}
	sess, err := h.Service.Get(c.Request.Context(), kind, caller)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// UpsertSession handles POST /api/sessions/:kind, minting a session id when the caller
// has no cookie yet.
func (h *SessionHandler) UpsertSession(c *gin.Context) {
	kind, caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req models.SessionUpsertRequest
	if !bindJSON(c, &req) {
		return
	}
	if caller.SessionID == "" {
		caller.SessionID = uuid.NewString()
	}

	sess, err := h.Service.Upsert(c.Request.Context(), kind, caller, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Cookies.set(c, kind, sess.SessionID, h.TTL)
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// PatchSession handles PATCH /api/sessions/:kind.
func (h *SessionHandler) PatchSession(c *gin.Context) {
	kind, caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req models.SessionPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.Service.Patch(c.Request.Context(), kind, caller, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Cookies.set(c, kind, sess.SessionID, h.TTL)
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// ApplyEvent handles POST /api/sessions/:kind/events.
func (h *SessionHandler) ApplyEvent(c *gin.Context) {
	kind, caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req models.SessionEventRequest
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.Service.ApplyEvent(c.Request.Context(), kind, caller, req.Event)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Cookies.set(c, kind, sess.SessionID, h.TTL)
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// DeleteSession handles DELETE /api/sessions/:kind and always clears the cookie.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	kind, caller, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), kind, caller); err != nil {
		utils.RespondError(c, err)
		return
	}
	h.Cookies.clear(c, kind)
	c.Status(http.StatusNoContent)
}
