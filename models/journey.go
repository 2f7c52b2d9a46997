package models

import (
	"time"
)

type RiskLevel string

const (
	RiskCoastal  RiskLevel = "Coastal"
	RiskOffshore RiskLevel = "Offshore"
	RiskExtreme  RiskLevel = "Extreme"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskCoastal, RiskOffshore, RiskExtreme:
		return true
	}
	return false
}

// Experience levels run on a 1..4 ordinal scale.
const (
	MinExperienceLevel = 1
	MaxExperienceLevel = 4
)

// Journey is an owner's sailing plan. Auto-approval settings live here.
type Journey struct {
	ID                    string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID               string    `json:"ownerId" gorm:"index;not null"`
	OwnerName             string    `json:"ownerName"`
	Name                  string    `json:"name" gorm:"not null"`
	Description           string    `json:"description"`
	AutoApprovalEnabled   bool      `json:"autoApprovalEnabled" gorm:"not null;default:false"`
	AutoApprovalThreshold int       `json:"autoApprovalThreshold" gorm:"not null"`
	AutoDenyBelow         *int      `json:"autoDenyBelow,omitempty"`
	Legs                  []Leg     `json:"legs,omitempty" gorm:"foreignKey:JourneyID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// Leg is one segment of a journey that crew register for.
type Leg struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	JourneyID          string     `json:"journeyId" gorm:"index;not null"`
	Name               string     `json:"name" gorm:"not null"`
	MinExperienceLevel int        `json:"minExperienceLevel" gorm:"not null"`
	RiskLevel          RiskLevel  `json:"riskLevel" gorm:"type:varchar(16);not null"`
	StartDate          *time.Time `json:"startDate,omitempty"`
	EndDate            *time.Time `json:"endDate,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type CreateLegInput struct {
	Name               string     `json:"name" binding:"required"`
	MinExperienceLevel int        `json:"minExperienceLevel"`
	RiskLevel          RiskLevel  `json:"riskLevel" binding:"required"`
	StartDate          *time.Time `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
}

type CreateJourneyInput struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Legs        []CreateLegInput `json:"legs" binding:"required,min=1"`
}

type AutoApprovalInput struct {
	Enabled       bool `json:"enabled"`
	Threshold     int  `json:"threshold"`
	AutoDenyBelow *int `json:"autoDenyBelow"`
}
