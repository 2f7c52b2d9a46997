package models

import "time"

// DecisionNotification tells a crew member that an owner (or auto-approval) decided on
// their registration. It is the payload of the outbound notification queue.
type DecisionNotification struct {
	RegistrationID string             `json:"registrationId"`
	CrewUserID     string             `json:"crewUserId"`
	JourneyID      string             `json:"journeyId"`
	JourneyName    string             `json:"journeyName"`
	OwnerName      string             `json:"ownerName"`
	Status         RegistrationStatus `json:"status"`
	AutoApproved   bool               `json:"autoApproved"`
	DecidedAt      time.Time          `json:"decidedAt"`
}
