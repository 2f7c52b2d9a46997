// models/user.go
package models

import (
	"fmt"
	"strings"
	"time"
)

type UserRole string

const (
	RoleOwner UserRole = "owner"
	RoleCrew  UserRole = "crew"
)

func (r UserRole) Valid() bool {
	return r == RoleOwner || r == RoleCrew
}

const (
	maxFullNameLength = 120
	maxSkills         = 50
)

// Skill is a crew skill with an optional free-text description.
type Skill struct {
	Name        string `json:"name" bson:"name"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// ConsentFlags records what the user agreed to during onboarding.
type ConsentFlags struct {
	TermsAccepted     bool       `json:"termsAccepted" bson:"termsAccepted"`
	AIProcessing      bool       `json:"aiProcessing" bson:"aiProcessing"`
	ProfileSharing    bool       `json:"profileSharing" bson:"profileSharing"`
	MarketingEmails   bool       `json:"marketingEmails" bson:"marketingEmails"`
	ConsentRecordedAt *time.Time `json:"consentRecordedAt,omitempty" bson:"consentRecordedAt,omitempty"`
}

// User is the identity/profile record. Password and token hashes never leave the store.
type User struct {
	ID              string       `json:"id" bson:"id"`
	Email           string       `json:"email" bson:"email"`
	FullName        string       `json:"fullName" bson:"fullName"`
	PasswordHash    string       `json:"-" bson:"passwordHash,omitempty"`
	TokenHash       string       `json:"-" bson:"tokenHash,omitempty"`
	Roles           []UserRole   `json:"roles" bson:"roles"`
	ExperienceLevel int          `json:"experienceLevel" bson:"experienceLevel"`
	RiskLevels      []RiskLevel  `json:"riskLevels" bson:"riskLevels"`
	Skills          []Skill      `json:"skills" bson:"skills"`
	Consents        ConsentFlags `json:"consents" bson:"consents"`
	FCMToken        string       `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	CreatedAt       time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt" bson:"updatedAt"`
}

func (u *User) HasRole(role UserRole) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ProfileComplete reports whether the user has filled in enough to skip profile setup.
func (u *User) ProfileComplete() bool {
	if u.FullName == "" || len(u.Roles) == 0 || !u.Consents.TermsAccepted {
		return false
	}
	if u.HasRole(RoleCrew) && u.ExperienceLevel < MinExperienceLevel {
		return false
	}
	return true
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileUpdateRequest carries a partial profile update. Nil fields are left untouched.
type ProfileUpdateRequest struct {
	FullName        *string       `json:"fullName"`
	Roles           *[]UserRole   `json:"roles"`
	ExperienceLevel *int          `json:"experienceLevel"`
	RiskLevels      *[]RiskLevel  `json:"riskLevels"`
	Skills          *[]Skill      `json:"skills"`
	Consents        *ConsentFlags `json:"consents"`
	FCMToken        *string       `json:"fcmToken"`
}

// AuthResponse is returned by sign-up and sign-in along with the post-login redirect.
type AuthResponse struct {
	ID       string `json:"id"`
	Token    string `json:"token"`
	Email    string `json:"email"`
	Redirect string `json:"redirect"`
}

// Validate checks the fields that are present.
func (r *ProfileUpdateRequest) Validate() error {
	if r.FullName != nil {
		name := strings.TrimSpace(*r.FullName)
		if name == "" || len(name) > maxFullNameLength {
			return fmt.Errorf("fullName must be 1 to %d characters", maxFullNameLength)
		}
	}
	if r.Roles != nil {
		if len(*r.Roles) == 0 {
			return fmt.Errorf("at least one role is required")
		}
		for _, role := range *r.Roles {
			if !role.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
		}
	}
	if r.ExperienceLevel != nil && (*r.ExperienceLevel < MinExperienceLevel || *r.ExperienceLevel > MaxExperienceLevel) {
		return fmt.Errorf("experienceLevel must be between %d and %d", MinExperienceLevel, MaxExperienceLevel)
	}
	if r.RiskLevels != nil {
		for _, lvl := range *r.RiskLevels {
			if !lvl.Valid() {
				return fmt.Errorf("unknown risk level %q", lvl)
			}
		}
	}
	if r.Skills != nil {
		if len(*r.Skills) > maxSkills {
			return fmt.Errorf("at most %d skills are allowed", maxSkills)
		}
		for _, sk := range *r.Skills {
			if strings.TrimSpace(sk.Name) == "" {
				return fmt.Errorf("skill name is required")
			}
		}
	}
	return nil
}
