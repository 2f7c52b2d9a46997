package handlers

import (
	"net/http"

	"sailsmart/models"
	"sailsmart/services/registration"
	"sailsmart/utils"

	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	Service registration.RegistrationService
}

func NewRegistrationHandler(svc registration.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{Service: svc}
}

// Submit handles POST /api/registrations.
func (h *RegistrationHandler) Submit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req models.SubmitRegistrationInput
	if !bindJSON(c, &req) {
		return
	}
	reg, err := h.Service.Submit(c.Request.Context(), userID, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

// Score handles GET /api/registrations/:id/score.
func (h *RegistrationHandler) Score(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	score, err := h.Service.Evaluate(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, score)
}

// Decide handles POST /api/registrations/:id/decision.
func (h *RegistrationHandler) Decide(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req models.DecisionInput
	if !bindJSON(c, &req) {
		return
	}
	reg, err := h.Service.Decide(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h *RegistrationHandler) Cancel(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	reg, err := h.Service.Cancel(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h *RegistrationHandler) UpdateAnswers(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req models.UpdateAnswersInput
	if !bindJSON(c, &req) {
		return
	}
	reg, err := h.Service.UpdateAnswers(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}
