package models

import (
	"time"

	"github.com/google/uuid"
)

// EmploymentStatus describes the job-search state a user reports during onboarding
type EmploymentStatus string

const (
	EmploymentEmployed  EmploymentStatus = "employed"
	EmploymentSearching EmploymentStatus = "searching"
	EmploymentStudent   EmploymentStatus = "student"
	EmploymentOther     EmploymentStatus = "other"
)

// Profile is this system's own per-identity row. The identity itself (email,
// display name, avatar) is owned by the external auth provider; the profile
// carries the role and onboarding state plus free-text discovery fields.
type Profile struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	IdentityID       uuid.UUID        `json:"identity_id" db:"identity_id"` // subject from the identity provider
	Email            string           `json:"email" db:"email"`
	DisplayName      string           `json:"display_name" db:"display_name"`
	Role             string           `json:"role" db:"role"`
	Onboarded        bool             `json:"onboarded" db:"onboarded"`
	DesiredJobTitle  string           `json:"desired_job_title" db:"desired_job_title"`
	DesiredLocation  string           `json:"desired_location" db:"desired_location"`
	EmploymentStatus EmploymentStatus `json:"employment_status" db:"employment_status"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile creates a default Profile for an identity seen for the first time.
// Role defaults to "user" and onboarding starts incomplete.
func NewProfile(identityID uuid.UUID, email, displayName string) *Profile {
	now := time.Now()
	return &Profile{
		ID:          uuid.New(),
		IdentityID:  identityID,
		Email:       email,
		DisplayName: displayName,
		Role:        "user",
		Onboarded:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
