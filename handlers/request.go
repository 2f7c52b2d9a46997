package handlers

import (
	"sailsmart/utils"

	"github.com/gin-gonic/gin"
)

// currentUserID returns the id set by the auth middleware, or "" when unauthenticated.
func currentUserID(c *gin.Context) string {
	return c.GetString("userID")
}

// requireUser writes a 401 and returns false when the request is not authenticated.
func requireUser(c *gin.Context) (string, bool) {
	userID := currentUserID(c)
	if userID == "" {
		utils.RespondError(c, utils.Unauthenticated("authentication required"))
		return "", false
	}
	return userID, true
}

// bindJSON decodes the body into req and writes a validation error on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.RespondError(c, utils.Validation("invalid request: "+err.Error()))
		return false
	}
	return true
}
