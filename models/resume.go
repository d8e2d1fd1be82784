package models

import (
	"time"

	"github.com/google/uuid"
)

// ResumeStatus represents where a resume sits in the review pipeline
type ResumeStatus string

const (
	ResumePending  ResumeStatus = "pending"
	ResumeInReview ResumeStatus = "in_review"
	ResumeReviewed ResumeStatus = "reviewed"
)

// ValidResumeStatus reports whether s is one of the pipeline statuses
func ValidResumeStatus(s ResumeStatus) bool {
	switch s {
	case ResumePending, ResumeInReview, ResumeReviewed:
		return true
	}
	return false
}

// Resume is an uploaded PDF awaiting or undergoing review. The file itself
// lives in object storage; StorageKey points at it.
type Resume struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	IdentityID uuid.UUID    `json:"identity_id" db:"identity_id"` // owning uploader
	Title      string       `json:"title" db:"title"`
	StorageKey string       `json:"storage_key" db:"storage_key"`
	Status     ResumeStatus `json:"status" db:"status"`
	// AdminNote is the moderator's free-text score field. It is deliberately
	// unbounded and distinct from the 1-10 review score.
	AdminNote string    `json:"admin_note" db:"admin_note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Resume model
func (Resume) TableName() string {
	return "resumes"
}

// NewResume creates a new pending Resume for an uploader
func NewResume(identityID uuid.UUID, title, storageKey string) *Resume {
	now := time.Now()
	return &Resume{
		ID:         uuid.New(),
		IdentityID: identityID,
		Title:      title,
		StorageKey: storageKey,
		Status:     ResumePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Review is a reviewer's scored assessment of a resume.
// Score is bounded 1-10 inclusive; the admin free-text note is not a Review.
type Review struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ResumeID   uuid.UUID `json:"resume_id" db:"resume_id"`
	ReviewerID uuid.UUID `json:"reviewer_id" db:"reviewer_id"`
	Score      int       `json:"score" db:"score"`
	Feedback   string    `json:"feedback" db:"feedback"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a new Review of a resume
func NewReview(resumeID, reviewerID uuid.UUID, score int, feedback string) *Review {
	return &Review{
		ID:         uuid.New(),
		ResumeID:   resumeID,
		ReviewerID: reviewerID,
		Score:      score,
		Feedback:   feedback,
		CreatedAt:  time.Now(),
	}
}

// Follow records that one identity follows a reviewer's underlying identity.
// The pair is the natural key; inserts are idempotent upserts.
type Follow struct {
	FollowerID uuid.UUID `json:"follower_id" db:"follower_id"`
	ReviewerID uuid.UUID `json:"reviewer_id" db:"reviewer_id"` // the reviewer's identity id, not the reviewer row id
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Follow model
func (Follow) TableName() string {
	return "follows"
}
