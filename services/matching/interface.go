package matching

import (
	"context"

	"sailsmart/models"
)

// QuestionScorer judges a free-text answer against the owner's criteria.
type QuestionScorer interface {
	ScoreAnswer(ctx context.Context, prompt models.QuestionPrompt) (models.AnswerScore, error)
}

// Profile is the slice of a crew member's profile that requirements look at.
type Profile struct {
	ExperienceLevel int
	RiskLevels      []models.RiskLevel
	Skills          []models.Skill
	AIConsent       bool
}

func ProfileFromUser(u *models.User) Profile {
	return Profile{
		ExperienceLevel: u.ExperienceLevel,
		RiskLevels:      u.RiskLevels,
		Skills:          u.Skills,
		AIConsent:       u.Consents.AIProcessing,
	}
}

// Input is everything one evaluation needs.
type Input struct {
	Requirements []models.JourneyRequirement
	Leg          models.Leg
	Profile      Profile
	// Answers are keyed by requirement id.
	Answers   map[string]models.RegistrationAnswer
	Documents []models.IdentityDocument
}

// Outcome is the verdict for one requirement.
type Outcome struct {
	RequirementID string                 `json:"requirementId"`
	Type          models.RequirementType `json:"type"`
	Label         string                 `json:"label"`
	Passed        bool                   `json:"passed"`
	Required      bool                   `json:"required"`
	Weight        int                    `json:"weight"`
	Evaluated     bool                   `json:"evaluated"`
	Reason        string                 `json:"reason"`
}

// Result aggregates the outcomes into a 0..100 score.
type Result struct {
	Score          int       `json:"score"`
	PassesRequired bool      `json:"passesRequired"`
	Reasoning      string    `json:"reasoning"`
	BlockingItems  []string  `json:"blockingItems,omitempty"`
	Outcomes       []Outcome `json:"outcomes"`
}
