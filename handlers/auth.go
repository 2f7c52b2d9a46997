package handlers

import (
	"net/http"

	"sailsmart/models"
	"sailsmart/services/session"
	"sailsmart/services/user"
	"sailsmart/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler is the authentication callback: it authenticates, links any onboarding
// sessions the browser carries, then picks the redirect.
type AuthHandler struct {
	Users  user.UserService
	Linker session.Linker
}

func NewAuthHandler(users user.UserService, linker session.Linker) *AuthHandler {
	return &AuthHandler{Users: users, Linker: linker}
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if !bindJSON(c, &req) {
		return
	}
	u, token, err := h.Users.SignUp(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.complete(c, u, token))
}

// SignIn handles POST /api/auth/signin.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if !bindJSON(c, &req) {
		return
	}
	u, token, err := h.Users.SignIn(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.complete(c, u, token))
}

// complete links presented sessions before the redirect is computed so that a freshly
// linked session is seen by the redirect lookup. Link failures never fail the sign-in.
func (h *AuthHandler) complete(c *gin.Context, u *models.User, token string) models.AuthResponse {
	ctx := c.Request.Context()
	logger := utils.GetLogger()

	if cookies := sessionCookies(c); len(cookies) > 0 {
		res := h.Linker.LinkSessions(ctx, u.ID, cookies)
		for kind, err := range res.Failed {
			logger.Warn("Onboarding session was not linked",
				zap.String("userID", u.ID), zap.String("kind", string(kind)), zap.Error(err))
		}
	}

	return models.AuthResponse{
		ID:       u.ID,
		Token:    token,
		Email:    u.Email,
		Redirect: h.Linker.ResolveRedirect(ctx, u),
	}
}
