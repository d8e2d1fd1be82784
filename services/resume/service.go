// Package resume implements the resume pipeline: upload, the owner's list,
// the reviewer queue and the moderation surface.
package resume

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
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service handles resume operations
type Service struct {
	resumes   repositories.ResumeRepository
	txManager repositories.TransactionManager
	logger    *zap.Logger
}

// NewService creates a new resume service
func NewService(resumes repositories.ResumeRepository, txManager repositories.TransactionManager, logger *zap.Logger) *Service {
	return &Service{
		resumes:   resumes,
		txManager: txManager,
		logger:    logger,
	}
}

// UploadInput is the payload for registering an uploaded resume.
// StorageKey points at the already-stored PDF.
type UploadInput struct {
	Title      string `json:"title" validate:"required,max=200"`
	StorageKey string `json:"storage_key" validate:"required,max=500"`
}

// Upload registers a new resume for identityID in the pending state
func (s *Service) Upload(ctx context.Context, identityID uuid.UUID, input UploadInput) (*models.Resume, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.WrapError(services.ErrorTypeValidation, err.Error(), err)
	}

	res := models.NewResume(identityID, input.Title, input.StorageKey)
	if err := s.resumes.Create(ctx, res); err != nil {
		return nil, services.WrapDatabase("failed to create resume", err)
	}

	s.logger.Info("resume uploaded",
		zap.String("resume_id", res.ID.String()),
		zap.String("identity_id", identityID.String()))
	return res, nil
}

// Get retrieves a resume. Only the owner may read it unless the caller can
// moderate (reviewers working the queue, admins).
func (s *Service) Get(ctx context.Context, callerID uuid.UUID, canModerate bool, id uuid.UUID) (*models.Resume, error) {
	res, err := s.resumes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrResumeNotFound
		}
		return nil, services.WrapDatabase("failed to get resume", err)
	}
	if res.IdentityID != callerID && !canModerate {
		return nil, services.ErrNotResourceOwner
	}
	return res, nil
}

// ListOwn retrieves all resumes uploaded by identityID
func (s *Service) ListOwn(ctx context.Context, identityID uuid.UUID) ([]*models.Resume, error) {
	recs, err := s.resumes.GetByIdentityID(ctx, identityID)
	if err != nil {
		return nil, services.WrapDatabase("failed to list resumes", err)
	}
	return recs, nil
}

// List retrieves resumes across all owners, optionally filtered by status.
// This is the moderation and queue listing.
func (s *Service) List(ctx context.Context, status models.ResumeStatus, limit, offset int) ([]*models.Resume, error) {
	if status != "" && !models.ValidResumeStatus(status) {
		return nil, services.ErrInvalidStatus
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	recs, err := s.resumes.List(ctx, status, limit, offset)
	if err != nil {
		return nil, services.WrapDatabase("failed to list resumes", err)
	}
	return recs, nil
}

// Queue retrieves the pending resumes waiting for a reviewer
func (s *Service) Queue(ctx context.Context, limit, offset int) ([]*models.Resume, error) {
	return s.List(ctx, models.ResumePending, limit, offset)
}

// Claim moves a pending resume into review. The flip is guarded on the
// pending status, so when two reviewers race only the first write matches
// and the loser gets a conflict.
func (s *Service) Claim(ctx context.Context, id uuid.UUID) (*models.Resume, error) {
	var claimed *models.Resume

	err := s.txManager.InTransaction(ctx, func(txCtx context.Context, tx repositories.Transaction) error {
		repo := s.resumes.WithTx(tx)

		res, err := repo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return services.ErrResumeNotFound
			}
			return services.WrapDatabase("failed to get resume", err)
		}
		if res.Status != models.ResumePending {
			return services.ErrResumeNotClaimable
		}

		res.Status = models.ResumeInReview
		res.UpdatedAt = time.Now()
		if err := repo.SetStatusFrom(txCtx, id, models.ResumePending, models.ResumeInReview, res.UpdatedAt); err != nil {
			if errors.Is(err, repositories.ErrStatusChanged) {
				return services.ErrResumeNotClaimable
			}
			return services.WrapDatabase("failed to claim resume", err)
		}

		claimed = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("resume claimed for review", zap.String("resume_id", id.String()))
	return claimed, nil
}

// Retitle renames a resume. Owner-only; the pipeline status is untouched.
func (s *Service) Retitle(ctx context.Context, callerID, id uuid.UUID, title string) (*models.Resume, error) {
	if title == "" || len(title) > 200 {
		return nil, services.WrapError(services.ErrorTypeValidation, "title must be 1-200 characters", nil)
	}

	res, err := s.resumes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrResumeNotFound
		}
		return nil, services.WrapDatabase("failed to get resume", err)
	}
	if res.IdentityID != callerID {
		return nil, services.ErrNotResourceOwner
	}

	res.Title = title
	res.UpdatedAt = time.Now()
	if err := s.resumes.Update(ctx, res); err != nil {
		return nil, services.WrapDatabase("failed to update resume", err)
	}
	return res, nil
}

// ModerateInput is the admin's moderation payload. Status and note are both
// optional; the note is free text with no length bound.
type ModerateInput struct {
	Status    *models.ResumeStatus `json:"status,omitempty"`
	AdminNote *string              `json:"admin_note,omitempty"`
}

// Moderate applies an admin's status override and/or free-text note
func (s *Service) Moderate(ctx context.Context, id uuid.UUID, input ModerateInput) (*models.Resume, error) {
	if input.Status != nil && !models.ValidResumeStatus(*input.Status) {
		return nil, services.ErrInvalidStatus
	}

	res, err := s.resumes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrResumeNotFound
		}
		return nil, services.WrapDatabase("failed to get resume", err)
	}

	if input.Status != nil {
		res.Status = *input.Status
	}
	if input.AdminNote != nil {
		res.AdminNote = *input.AdminNote
	}
	res.UpdatedAt = time.Now()

	if err := s.resumes.Update(ctx, res); err != nil {
		return nil, services.WrapDatabase("failed to update resume", err)
	}

	s.logger.Info("resume moderated",
		zap.String("resume_id", id.String()),
		zap.String("status", string(res.Status)))
	return res, nil
}
