package handlers

import (
	"net/http"

	"sailsmart/models"
	"sailsmart/services/user"
	"sailsmart/utils"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	Users user.UserService
}

func NewProfileHandler(users user.UserService) *ProfileHandler {
	return &ProfileHandler{Users: users}
}

// GetProfile handles GET /api/profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	u, err := h.Users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateProfile handles PATCH /api/profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req models.ProfileUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Users.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
