package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/resumelane/resumelane/models"
)

// ErrNotFound is returned by Get* methods when no row matches.
// Implementations wrap it so callers can test with errors.Is.
var ErrNotFound = errors.New("not found")

// ErrStatusChanged is returned by guarded status writes when the row's
// status no longer matches the expected value, usually because a
// concurrent transaction moved it first.
var ErrStatusChanged = errors.New("status changed")

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// ProfileRepository handles profile data operations
type ProfileRepository interface {
	// Create creates a new profile
	Create(ctx context.Context, profile *models.Profile) error

	// GetByIdentityID retrieves a profile by identity id
	GetByIdentityID(ctx context.Context, identityID uuid.UUID) (*models.Profile, error)

	// Update updates a profile's mutable fields
	Update(ctx context.Context, profile *models.Profile) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) ProfileRepository
}

// ReviewerRepository handles reviewer record data operations
type ReviewerRepository interface {
	// Create creates a new reviewer record
	Create(ctx context.Context, reviewer *models.Reviewer) error

	// GetByID retrieves a reviewer by row id
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reviewer, error)

	// GetByIdentityID retrieves a reviewer by the owning identity id
	GetByIdentityID(ctx context.Context, identityID uuid.UUID) (*models.Reviewer, error)

	// GetBySlug retrieves a reviewer by slug
	GetBySlug(ctx context.Context, slug string) (*models.Reviewer, error)

	// SlugExists reports whether a slug is already taken
	SlugExists(ctx context.Context, slug string) (bool, error)

	// SocialLinkExists reports whether a normalized social link already backs a reviewer
	SocialLinkExists(ctx context.Context, normalized string) (bool, error)

	// ExistsByIdentityID reports whether the identity already has a reviewer record
	ExistsByIdentityID(ctx context.Context, identityID uuid.UUID) (bool, error)

	// List retrieves reviewers with an optional expertise filter and pagination
	List(ctx context.Context, expertise string, limit, offset int) ([]*models.Reviewer, error)

	// Update updates a reviewer record
	Update(ctx context.Context, reviewer *models.Reviewer) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) ReviewerRepository
}

// ResumeRepository handles resume data operations
type ResumeRepository interface {
	// Create creates a new resume
	Create(ctx context.Context, resume *models.Resume) error

	// GetByID retrieves a resume by id
	GetByID(ctx context.Context, id uuid.UUID) (*models.Resume, error)

	// GetByIdentityID retrieves all resumes owned by an identity
	GetByIdentityID(ctx context.Context, identityID uuid.UUID) ([]*models.Resume, error)

	// List retrieves resumes across all owners with an optional status filter
	List(ctx context.Context, status models.ResumeStatus, limit, offset int) ([]*models.Resume, error)

	// Update updates a resume
	Update(ctx context.Context, resume *models.Resume) error

	// SetStatusFrom flips a resume's status only while it still holds from.
	// Returns ErrStatusChanged when the guard matched no row, so concurrent
	// pipeline moves cannot both win.
	SetStatusFrom(ctx context.Context, id uuid.UUID, from, to models.ResumeStatus, updatedAt time.Time) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) ResumeRepository
}

// ReviewRepository handles review data operations
type ReviewRepository interface {
	// Create creates a new review
	Create(ctx context.Context, review *models.Review) error

	// GetByResumeID retrieves all reviews of a resume
	GetByResumeID(ctx context.Context, resumeID uuid.UUID) ([]*models.Review, error)

	// GetByReviewerID retrieves all reviews written by a reviewer with pagination
	GetByReviewerID(ctx context.Context, reviewerID uuid.UUID, limit, offset int) ([]*models.Review, error)

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) ReviewRepository
}

// FollowRepository handles follow data operations keyed by
// (follower identity id, reviewer identity id)
type FollowRepository interface {
	// Upsert records a follow; inserting an existing pair is a no-op
	Upsert(ctx context.Context, followerID, reviewerIdentityID uuid.UUID) error

	// Delete removes a follow; deleting an absent pair is a no-op
	Delete(ctx context.Context, followerID, reviewerIdentityID uuid.UUID) error

	// Exists reports the current follow state for a pair
	Exists(ctx context.Context, followerID, reviewerIdentityID uuid.UUID) (bool, error)

	// CountByReviewer returns the follower count for a reviewer's identity
	CountByReviewer(ctx context.Context, reviewerIdentityID uuid.UUID) (int, error)

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) FollowRepository
}

// ExperienceRepository handles experience data operations
type ExperienceRepository interface {
	// Create creates a new experience entry
	Create(ctx context.Context, exp *models.Experience) error

	// GetByID retrieves an experience entry by id
	GetByID(ctx context.Context, id uuid.UUID) (*models.Experience, error)

	// GetByReviewerID retrieves all experience entries for a reviewer
	GetByReviewerID(ctx context.Context, reviewerID uuid.UUID) ([]*models.Experience, error)

	// Update updates an experience entry
	Update(ctx context.Context, exp *models.Experience) error

	// Delete deletes an experience entry
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) ExperienceRepository
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Profiles    ProfileRepository
	Reviewers   ReviewerRepository
	Resumes     ResumeRepository
	Reviews     ReviewRepository
	Follows     FollowRepository
	Experiences ExperienceRepository
}
