package models

import (
	"time"

	"gorm.io/datatypes"
)

type RegistrationStatus string

const (
	StatusPendingApproval RegistrationStatus = "Pending approval"
	StatusApproved        RegistrationStatus = "Approved"
	StatusNotApproved     RegistrationStatus = "Not approved"
	StatusCancelled       RegistrationStatus = "Cancelled"
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case StatusPendingApproval, StatusApproved, StatusNotApproved, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible from this status.
func (s RegistrationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusNotApproved || s == StatusCancelled
}

// Registration links a crew user to a journey leg.
type Registration struct {
	ID               string               `json:"id" gorm:"primaryKey;type:varchar(36)"`
	JourneyID        string               `json:"journeyId" gorm:"index;not null"`
	LegID            string               `json:"legId" gorm:"index;not null"`
	CrewUserID       string               `json:"crewUserId" gorm:"index;not null"`
	Status           RegistrationStatus   `json:"status" gorm:"type:varchar(32);not null"`
	AutoApproved     bool                 `json:"autoApproved" gorm:"not null;default:false"`
	AIMatchScore     *int                 `json:"aiMatchScore"`
	AIMatchReasoning string               `json:"aiMatchReasoning"`
	PassesRequired   *bool                `json:"passesRequired,omitempty"`
	Notes            string               `json:"notes"`
	DecidedAt        *time.Time           `json:"decidedAt,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
	Answers          []RegistrationAnswer `json:"answers,omitempty" gorm:"foreignKey:RegistrationID;constraint:OnDelete:CASCADE"`
}

// RegistrationAnswer holds a crew answer to one requirement of one registration.
type RegistrationAnswer struct {
	ID             string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RegistrationID string         `json:"registrationId" gorm:"uniqueIndex:idx_answer_reg_req;not null"`
	RequirementID  string         `json:"requirementId" gorm:"uniqueIndex:idx_answer_reg_req;index;not null"`
	AnswerText     *string        `json:"answerText,omitempty"`
	AnswerJSON     datatypes.JSON `json:"answerJson,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

type AnswerInput struct {
	RequirementID string         `json:"requirementId" binding:"required"`
	AnswerText    *string        `json:"answerText"`
	AnswerJSON    datatypes.JSON `json:"answerJson"`
}

type SubmitRegistrationInput struct {
	LegID   string        `json:"legId" binding:"required"`
	Notes   string        `json:"notes"`
	Answers []AnswerInput `json:"answers"`
}

type DecisionInput struct {
	Status RegistrationStatus `json:"status" binding:"required"`
	Notes  string             `json:"notes"`
}

type UpdateAnswersInput struct {
	Answers []AnswerInput `json:"answers" binding:"required"`
}

// ScoreResponse is the external shape of a registration evaluation.
type ScoreResponse struct {
	Score          int      `json:"score"`
	Reasoning      string   `json:"reasoning"`
	PassesRequired bool     `json:"passes_required"`
	BlockingItems  []string `json:"blocking_items,omitempty"`
}
