package handlers

import (
	"net/http"

	"sailsmart/models"
	"sailsmart/services/journey"
	"sailsmart/services/registration"
	"sailsmart/services/user"
	"sailsmart/utils"

	"github.com/gin-gonic/gin"
)

// JourneyHandler serves journey, requirement and auto-approval endpoints.
type JourneyHandler struct {
	Journeys      journey.JourneyService
	Registrations registration.RegistrationService
	Users         user.UserService
}

func NewJourneyHandler(journeys journey.JourneyService, regs registration.RegistrationService, users user.UserService) *JourneyHandler {
	return &JourneyHandler{Journeys: journeys, Registrations: regs, Users: users}
}

// CreateJourney handles POST /api/journeys.
func (h *JourneyHandler) CreateJourney(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req models.CreateJourneyInput
	if !bindJSON(c, &req) {
		return
	}
	owner, err := h.Users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	j, err := h.Journeys.CreateJourney(c.Request.Context(), owner, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, j)
}

// GetJourney handles GET /api/journeys/:id.
func (h *JourneyHandler) GetJourney(c *gin.Context) {
	j, err := h.Journeys.GetJourney(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, j)
}

// ConfigureAutoApproval handles PUT /api/journeys/:id/auto-approval.
func (h *JourneyHandler) ConfigureAutoApproval(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req models.AutoApprovalInput
	if !bindJSON(c, &req) {
		return
	}
	j, err := h.Journeys.ConfigureAutoApproval(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, j)
}

func (h *JourneyHandler) ListRequirements(c *gin.Context) {
	reqs, err := h.Journeys.ListRequirements(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requirements": reqs})
}

func (h *JourneyHandler) CreateRequirement(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req models.RequirementInput
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.Journeys.CreateRequirement(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *JourneyHandler) UpdateRequirement(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req models.RequirementInput
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.Journeys.UpdateRequirement(c.Request.Context(), userID, c.Param("id"), c.Param("reqID"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *JourneyHandler) DeleteRequirement(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Journeys.DeleteRequirement(c.Request.Context(), userID, c.Param("id"), c.Param("reqID")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListRegistrations handles GET /api/journeys/:id/registrations (journey owner only).
func (h *JourneyHandler) ListRegistrations(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	regs, err := h.Registrations.ListByJourney(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": regs})
}
