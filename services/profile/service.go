// Package profile implements the caller's own profile and onboarding flow.
package profile

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

// Service handles profile business logic
type Service struct {
	profiles repositories.ProfileRepository
	logger   *zap.Logger
}

// NewService creates a new profile service
func NewService(profiles repositories.ProfileRepository, logger *zap.Logger) *Service {
	return &Service{
		profiles: profiles,
		logger:   logger,
	}
}

// UpdateInput carries the onboarding fields of a profile. Nil fields are
// left untouched.
type UpdateInput struct {
	DisplayName      *string `json:"display_name,omitempty" validate:"omitempty,min=2,max=100"`
	DesiredJobTitle  *string `json:"desired_job_title,omitempty" validate:"omitempty,max=150"`
	DesiredLocation  *string `json:"desired_location,omitempty" validate:"omitempty,max=150"`
	EmploymentStatus *string `json:"employment_status,omitempty" validate:"omitempty,oneof=employed searching student other"`
	Onboarded        *bool   `json:"onboarded,omitempty"`
}

// GetOwn retrieves the caller's profile
func (s *Service) GetOwn(ctx context.Context, identityID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profiles.GetByIdentityID(ctx, identityID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrProfileNotFound
		}
		return nil, services.WrapDatabase("failed to get profile", err)
	}
	return profile, nil
}

// UpdateOwn applies the onboarding fields to the caller's profile. The role
// is never writable here; it changes only through the become-reviewer flow
// and the admin allow-list.
func (s *Service) UpdateOwn(ctx context.Context, identityID uuid.UUID, input UpdateInput) (*models.Profile, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.WrapError(services.ErrorTypeValidation, err.Error(), err)
	}

	profile, err := s.GetOwn(ctx, identityID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		profile.DisplayName = *input.DisplayName
	}
	if input.DesiredJobTitle != nil {
		profile.DesiredJobTitle = *input.DesiredJobTitle
	}
	if input.DesiredLocation != nil {
		profile.DesiredLocation = *input.DesiredLocation
	}
	if input.EmploymentStatus != nil {
		profile.EmploymentStatus = models.EmploymentStatus(*input.EmploymentStatus)
	}
	if input.Onboarded != nil {
		profile.Onboarded = *input.Onboarded
	}
	profile.UpdatedAt = time.Now()

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, services.WrapDatabase("failed to update profile", err)
	}

	s.logger.Info("profile updated",
		zap.String("identity_id", identityID.String()),
		zap.Bool("onboarded", profile.Onboarded),
	)
	return profile, nil
}
