// Package review implements scored review submission and the listings
// derived from it.
package review

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

const (
	minScore = 1
	maxScore = 10

	defaultListLimit = 20
	maxListLimit     = 100
)

// Service handles review operations
type Service struct {
	reviews   repositories.ReviewRepository
	resumes   repositories.ResumeRepository
	reviewers repositories.ReviewerRepository
	txManager repositories.TransactionManager
	logger    *zap.Logger
}

// NewService creates a new review service
func NewService(
	reviews repositories.ReviewRepository,
	resumes repositories.ResumeRepository,
	reviewers repositories.ReviewerRepository,
	txManager repositories.TransactionManager,
	logger *zap.Logger,
) *Service {
	return &Service{
		reviews:   reviews,
		resumes:   resumes,
		reviewers: reviewers,
		txManager: txManager,
		logger:    logger,
	}
}

// SubmitInput is the payload for submitting a review
type SubmitInput struct {
	ResumeID uuid.UUID `json:"resume_id" validate:"required"`
	Score    int       `json:"score"`
	Feedback string    `json:"feedback" validate:"required,max=10000"`
}

// Submit records a reviewer's scored assessment. The review insert, the
// resume's move to reviewed and the reviewer's rating update commit in a
// single transaction, so a crash can never leave a reviewed resume without
// its review or a stale rating.
//
// The score is a bounded 1-10 integer. The admin's free-text note is a
// different field entirely and never passes through here.
func (s *Service) Submit(ctx context.Context, reviewerIdentityID uuid.UUID, input SubmitInput) (*models.Review, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.WrapError(services.ErrorTypeValidation, err.Error(), err)
	}
	if input.Score < minScore || input.Score > maxScore {
		return nil, services.ErrScoreOutOfRange
	}

	rec, err := s.reviewers.GetByIdentityID(ctx, reviewerIdentityID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrReviewerNotFound
		}
		return nil, services.WrapDatabase("failed to get reviewer", err)
	}

	review := models.NewReview(input.ResumeID, rec.ID, input.Score, input.Feedback)

	err = s.txManager.InTransaction(ctx, func(txCtx context.Context, tx repositories.Transaction) error {
		resumeRepo := s.resumes.WithTx(tx)

		res, err := resumeRepo.GetByID(txCtx, input.ResumeID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return services.ErrResumeNotFound
			}
			return services.WrapDatabase("failed to get resume", err)
		}
		if res.Status != models.ResumeInReview {
			return services.ErrResumeNotClaimable
		}

		if err := s.reviews.WithTx(tx).Create(txCtx, review); err != nil {
			return services.WrapDatabase("failed to create review", err)
		}

		// Guarded on in_review so two reviewers cannot both close the
		// same resume.
		if err := resumeRepo.SetStatusFrom(txCtx, input.ResumeID, models.ResumeInReview, models.ResumeReviewed, time.Now()); err != nil {
			if errors.Is(err, repositories.ErrStatusChanged) {
				return services.ErrResumeNotClaimable
			}
			return services.WrapDatabase("failed to update resume status", err)
		}

		// Fold the new score into the denormalized rating
		total := rec.Rating*float64(rec.ReviewCount) + float64(input.Score)
		rec.ReviewCount++
		rec.Rating = total / float64(rec.ReviewCount)
		rec.UpdatedAt = time.Now()
		if err := s.reviewers.WithTx(tx).Update(txCtx, rec); err != nil {
			return services.WrapDatabase("failed to update reviewer rating", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("review submitted",
		zap.String("review_id", review.ID.String()),
		zap.String("resume_id", input.ResumeID.String()),
		zap.Int("score", input.Score))
	return review, nil
}

// ListByResume retrieves all reviews of a resume
func (s *Service) ListByResume(ctx context.Context, resumeID uuid.UUID) ([]*models.Review, error) {
	recs, err := s.reviews.GetByResumeID(ctx, resumeID)
	if err != nil {
		return nil, services.WrapDatabase("failed to list reviews", err)
	}
	return recs, nil
}

// ListByReviewer retrieves a reviewer's past reviews, newest first
func (s *Service) ListByReviewer(ctx context.Context, reviewerID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	recs, err := s.reviews.GetByReviewerID(ctx, reviewerID, limit, offset)
	if err != nil {
		return nil, services.WrapDatabase("failed to list reviews", err)
	}
	return recs, nil
}
