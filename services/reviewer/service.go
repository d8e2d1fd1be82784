// Package reviewer implements the reviewer-page lifecycle: becoming a
// reviewer, the public directory, page edits and work-history entries.
package reviewer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/resumelane/resumelane/models"
	"github.com/resumelane/resumelane/repositories"
	"github.com/resumelane/resumelane/services"
	"github.com/resumelane/resumelane/utils"
	"go.uber.org/zap"
)

// maxHeadlineWords caps the public headline. Enforced server-side; the
// client-side counter is advisory only.
const maxHeadlineWords = 50

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service handles reviewer page operations
type Service struct {
	reviewers   repositories.ReviewerRepository
	profiles    repositories.ProfileRepository
	experiences repositories.ExperienceRepository
	txManager   repositories.TransactionManager
	logger      *zap.Logger
}

// NewService creates a new reviewer service
func NewService(
	reviewers repositories.ReviewerRepository,
	profiles repositories.ProfileRepository,
	experiences repositories.ExperienceRepository,
	txManager repositories.TransactionManager,
	logger *zap.Logger,
) *Service {
	return &Service{
		reviewers:   reviewers,
		profiles:    profiles,
		experiences: experiences,
		txManager:   txManager,
		logger:      logger,
	}
}

// BecomeInput is the payload for upgrading an identity to a reviewer
type BecomeInput struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=100"`
	Headline    string `json:"headline" validate:"required"`
	Expertise   string `json:"expertise" validate:"required,max=100"`
	SocialLink  string `json:"social_link" validate:"required"`
}

// Become creates the reviewer record for an identity and flips its profile
// role to reviewer, atomically. The slug derives from the display name; on
// collision a numeric suffix is appended. The social link is normalized
// first and may back at most one reviewer account.
func (s *Service) Become(ctx context.Context, identityID uuid.UUID, input BecomeInput) (*models.Reviewer, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.WrapError(services.ErrorTypeValidation, err.Error(), err)
	}
	if utils.CountWords(input.Headline) > maxHeadlineWords {
		return nil, services.ErrHeadlineTooLong
	}

	normalized, err := NormalizeSocialLink(input.SocialLink)
	if err != nil {
		return nil, err
	}

	exists, err := s.reviewers.ExistsByIdentityID(ctx, identityID)
	if err != nil {
		return nil, services.WrapDatabase("failed to check reviewer record", err)
	}
	if exists {
		return nil, services.ErrAlreadyReviewer
	}

	taken, err := s.reviewers.SocialLinkExists(ctx, normalized)
	if err != nil {
		return nil, services.WrapDatabase("failed to check social link", err)
	}
	if taken {
		return nil, services.ErrSocialLinkTaken
	}

	slug, err := assignSlug(ctx, s.reviewers, Slugify(input.DisplayName))
	if err != nil {
		return nil, err
	}

	rec := models.NewReviewer(identityID, slug, input.DisplayName, input.Headline, input.Expertise, normalized)

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, tx repositories.Transaction) error {
		if err := s.reviewers.WithTx(tx).Create(txCtx, rec); err != nil {
			return services.WrapDatabase("failed to create reviewer", err)
		}

		profile, err := s.profiles.WithTx(tx).GetByIdentityID(txCtx, identityID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return services.ErrProfileNotFound
			}
			return services.WrapDatabase("failed to load profile", err)
		}
		profile.Role = "reviewer"
		profile.UpdatedAt = time.Now()
		if err := s.profiles.WithTx(tx).Update(txCtx, profile); err != nil {
			return services.WrapDatabase("failed to update profile role", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reviewer account created",
		zap.String("identity_id", identityID.String()),
		zap.String("slug", rec.Slug))
	return rec, nil
}

// GetBySlug retrieves a reviewer page by slug. This is the public lookup.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Reviewer, error) {
	rec, err := s.reviewers.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrReviewerNotFound
		}
		return nil, services.WrapDatabase("failed to get reviewer", err)
	}
	return rec, nil
}

// GetByID retrieves a reviewer page by row id
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Reviewer, error) {
	rec, err := s.reviewers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrReviewerNotFound
		}
		return nil, services.WrapDatabase("failed to get reviewer", err)
	}
	return rec, nil
}

// GetByIdentity retrieves the reviewer record owned by identityID
func (s *Service) GetByIdentity(ctx context.Context, identityID uuid.UUID) (*models.Reviewer, error) {
	rec, err := s.reviewers.GetByIdentityID(ctx, identityID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrReviewerNotFound
		}
		return nil, services.WrapDatabase("failed to get reviewer", err)
	}
	return rec, nil
}

// List retrieves the reviewer directory with an optional expertise filter
func (s *Service) List(ctx context.Context, expertise string, limit, offset int) ([]*models.Reviewer, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	recs, err := s.reviewers.List(ctx, expertise, limit, offset)
	if err != nil {
		return nil, services.WrapDatabase("failed to list reviewers", err)
	}
	return recs, nil
}

// UpdatePageInput is the payload for editing a reviewer page.
// Nil fields are left untouched. The slug never changes on rename.
type UpdatePageInput struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=2,max=100"`
	Headline    *string `json:"headline,omitempty"`
	Expertise   *string `json:"expertise,omitempty" validate:"omitempty,max=100"`
	SocialLink  *string `json:"social_link,omitempty"`
}

// UpdatePage edits the caller's own reviewer page
func (s *Service) UpdatePage(ctx context.Context, identityID uuid.UUID, input UpdatePageInput) (*models.Reviewer, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.WrapError(services.ErrorTypeValidation, err.Error(), err)
	}

	rec, err := s.GetByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		rec.DisplayName = *input.DisplayName
	}
	if input.Headline != nil {
		if utils.CountWords(*input.Headline) > maxHeadlineWords {
			return nil, services.ErrHeadlineTooLong
		}
		rec.Headline = *input.Headline
	}
	if input.Expertise != nil {
		rec.Expertise = *input.Expertise
	}
	if input.SocialLink != nil {
		normalized, err := NormalizeSocialLink(*input.SocialLink)
		if err != nil {
			return nil, err
		}
		if normalized != rec.SocialLink {
			taken, err := s.reviewers.SocialLinkExists(ctx, normalized)
			if err != nil {
				return nil, services.WrapDatabase("failed to check social link", err)
			}
			if taken {
				return nil, services.ErrSocialLinkTaken
			}
			rec.SocialLink = normalized
		}
	}
	rec.UpdatedAt = time.Now()

	if err := s.reviewers.Update(ctx, rec); err != nil {
		return nil, services.WrapDatabase("failed to update reviewer", err)
	}
	return rec, nil
}

// ExperienceInput is the payload for creating or replacing a work-history entry
type ExperienceInput struct {
	Title     string     `json:"title" validate:"required,max=150"`
	Company   string     `json:"company" validate:"required,max=150"`
	StartDate time.Time  `json:"start_date" validate:"required"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Summary   string     `json:"summary" validate:"max=2000"`
}

// AddExperience appends a work-history entry to the caller's reviewer page
func (s *Service) AddExperience(ctx context.Context, identityID uuid.UUID, input ExperienceInput) (*models.Experience, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.WrapError(services.ErrorTypeValidation, err.Error(), err)
	}

	rec, err := s.GetByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}

	exp := models.NewExperience(rec.ID, input.Title, input.Company, input.StartDate, input.EndDate, input.Summary)
	if err := s.experiences.Create(ctx, exp); err != nil {
		return nil, services.WrapDatabase("failed to create experience", err)
	}
	return exp, nil
}

// ListExperiences retrieves the work history shown on a reviewer page
func (s *Service) ListExperiences(ctx context.Context, reviewerID uuid.UUID) ([]*models.Experience, error) {
	exps, err := s.experiences.GetByReviewerID(ctx, reviewerID)
	if err != nil {
		return nil, services.WrapDatabase("failed to list experiences", err)
	}
	return exps, nil
}

// UpdateExperience replaces one of the caller's own work-history entries
func (s *Service) UpdateExperience(ctx context.Context, identityID, experienceID uuid.UUID, input ExperienceInput) (*models.Experience, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.WrapError(services.ErrorTypeValidation, err.Error(), err)
	}

	exp, err := s.ownedExperience(ctx, identityID, experienceID)
	if err != nil {
		return nil, err
	}

	exp.Title = input.Title
	exp.Company = input.Company
	exp.StartDate = input.StartDate
	exp.EndDate = input.EndDate
	exp.Summary = input.Summary
	exp.UpdatedAt = time.Now()

	if err := s.experiences.Update(ctx, exp); err != nil {
		return nil, services.WrapDatabase("failed to update experience", err)
	}
	return exp, nil
}

// DeleteExperience removes one of the caller's own work-history entries
func (s *Service) DeleteExperience(ctx context.Context, identityID, experienceID uuid.UUID) error {
	if _, err := s.ownedExperience(ctx, identityID, experienceID); err != nil {
		return err
	}
	if err := s.experiences.Delete(ctx, experienceID); err != nil {
		return services.WrapDatabase("failed to delete experience", err)
	}
	return nil
}

// ownedExperience loads an experience and checks it belongs to the caller's
// reviewer record. A foreign entry reads as forbidden, not missing.
func (s *Service) ownedExperience(ctx context.Context, identityID, experienceID uuid.UUID) (*models.Experience, error) {
	rec, err := s.GetByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}

	exp, err := s.experiences.GetByID(ctx, experienceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrExperienceNotFound
		}
		return nil, services.WrapDatabase("failed to get experience", err)
	}
	if exp.ReviewerID != rec.ID {
		return nil, services.ErrNotResourceOwner
	}
	return exp, nil
}
