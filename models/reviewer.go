package models

import (
	"time"

	"github.com/google/uuid"
)

// Reviewer is the public page backing a reviewer account: slug, headline,
// expertise and the normalized social link that may back at most one account.
type Reviewer struct {
	ID          uuid.UUID `json:"id" db:"id"`
	IdentityID  uuid.UUID `json:"identity_id" db:"identity_id"`
	Slug        string    `json:"slug" db:"slug"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Headline    string    `json:"headline" db:"headline"`
	Expertise   string    `json:"expertise" db:"expertise"`
	SocialLink  string    `json:"social_link" db:"social_link"`       // normalized, unique across reviewers
	Rating      float64   `json:"rating" db:"rating"`                 // average of review scores, denormalized
	ReviewCount int       `json:"review_count" db:"review_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Reviewer model
func (Reviewer) TableName() string {
	return "reviewers"
}

// NewReviewer creates a new Reviewer record for an identity
func NewReviewer(identityID uuid.UUID, slug, displayName, headline, expertise, socialLink string) *Reviewer {
	now := time.Now()
	return &Reviewer{
		ID:          uuid.New(),
		IdentityID:  identityID,
		Slug:        slug,
		DisplayName: displayName,
		Headline:    headline,
		Expertise:   expertise,
		SocialLink:  socialLink,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Experience is a work-history entry on a reviewer's public page,
// always scoped to the owning reviewer record.
type Experience struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	ReviewerID uuid.UUID  `json:"reviewer_id" db:"reviewer_id"`
	Title      string     `json:"title" db:"title"`
	Company    string     `json:"company" db:"company"`
	StartDate  time.Time  `json:"start_date" db:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty" db:"end_date"` // nil while current
	Summary    string     `json:"summary" db:"summary"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Experience model
func (Experience) TableName() string {
	return "experiences"
}

// NewExperience creates a new Experience entry for a reviewer
func NewExperience(reviewerID uuid.UUID, title, company string, start time.Time, end *time.Time, summary string) *Experience {
	now := time.Now()
	return &Experience{
		ID:         uuid.New(),
		ReviewerID: reviewerID,
		Title:      title,
		Company:    company,
		StartDate:  start,
		EndDate:    end,
		Summary:    summary,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
