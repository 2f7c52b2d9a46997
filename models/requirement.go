package models

import "time"

type RequirementType string

const (
	RequirementQuestion        RequirementType = "question"
	RequirementSkill           RequirementType = "skill"
	RequirementPassport        RequirementType = "passport"
	RequirementRiskLevel       RequirementType = "risk_level"
	RequirementExperienceLevel RequirementType = "experience_level"
)

func (t RequirementType) Valid() bool {
	switch t {
	case RequirementQuestion, RequirementSkill, RequirementPassport, RequirementRiskLevel, RequirementExperienceLevel:
		return true
	}
	return false
}

// Weighted reports whether the weight of this requirement type takes part in the score.
func (t RequirementType) Weighted() bool {
	return t == RequirementQuestion || t == RequirementSkill
}

const MaxRequirementWeight = 10

// JourneyRequirement is an owner-defined criterion crew must satisfy to join a journey.
type JourneyRequirement struct {
	ID                     string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	JourneyID              string          `json:"journeyId" gorm:"index;not null"`
	RequirementType        RequirementType `json:"requirementType" gorm:"type:varchar(32);not null"`
	QuestionText           *string         `json:"questionText,omitempty"`
	SkillName              *string         `json:"skillName,omitempty"`
	QualificationCriteria  *string         `json:"qualificationCriteria,omitempty"`
	RequirePhotoValidation bool            `json:"requirePhotoValidation" gorm:"not null;default:false"`
	PassConfidenceScore    *int            `json:"passConfidenceScore,omitempty"`
	Weight                 int             `json:"weight" gorm:"not null"`
	IsRequired             bool            `json:"isRequired" gorm:"not null;default:false"`
	Order                  int             `json:"order" gorm:"column:sort_order;not null;default:0"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

// RequirementInput is the validated create/update body for a requirement.
type RequirementInput struct {
	RequirementType        RequirementType `json:"requirementType" binding:"required"`
	QuestionText           *string         `json:"questionText"`
	SkillName              *string         `json:"skillName"`
	QualificationCriteria  *string         `json:"qualificationCriteria"`
	RequirePhotoValidation bool            `json:"requirePhotoValidation"`
	PassConfidenceScore    *int            `json:"passConfidenceScore"`
	Weight                 *int            `json:"weight"`
	IsRequired             bool            `json:"isRequired"`
	Order                  int             `json:"order"`
}
