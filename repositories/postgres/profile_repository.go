package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/resumelane/resumelane/models"
	"github.com/resumelane/resumelane/repositories"
	"go.uber.org/zap"
)

// ProfileRepository implements the repositories.ProfileRepository interface
type ProfileRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *DB, logger *zap.Logger) repositories.ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

const profileColumns = `id, identity_id, email, display_name, role, onboarded,
	desired_job_title, desired_location, employment_status, created_at, updated_at`

// Create creates a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, identity_id, email, display_name, role, onboarded,
			desired_job_title, desired_location, employment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		profile.ID,
		profile.IdentityID,
		profile.Email,
		profile.DisplayName,
		profile.Role,
		profile.Onboarded,
		profile.DesiredJobTitle,
		profile.DesiredLocation,
		profile.EmploymentStatus,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	r.logger.Debug("profile created",
		zap.String("id", profile.ID.String()),
		zap.String("identity_id", profile.IdentityID.String()))
	return nil
}

// GetByIdentityID retrieves a profile by identity id
func (r *ProfileRepository) GetByIdentityID(ctx context.Context, identityID uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE identity_id = $1`

	executor := GetExecutor(ctx, r.db)
	profile := &models.Profile{}

	err := executor.QueryRowContext(ctx, query, identityID).Scan(
		&profile.ID,
		&profile.IdentityID,
		&profile.Email,
		&profile.DisplayName,
		&profile.Role,
		&profile.Onboarded,
		&profile.DesiredJobTitle,
		&profile.DesiredLocation,
		&profile.EmploymentStatus,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile for identity %s: %w", identityID, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// Update updates a profile's mutable fields
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET email = $2,
		    display_name = $3,
		    role = $4,
		    onboarded = $5,
		    desired_job_title = $6,
		    desired_location = $7,
		    employment_status = $8,
		    updated_at = $9
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		profile.ID,
		profile.Email,
		profile.DisplayName,
		profile.Role,
		profile.Onboarded,
		profile.DesiredJobTitle,
		profile.DesiredLocation,
		profile.EmploymentStatus,
		profile.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("profile %s: %w", profile.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("profile updated", zap.String("id", profile.ID.String()))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *ProfileRepository) WithTx(tx repositories.Transaction) repositories.ProfileRepository {
	return &ProfileRepository{
		db:     r.db,
		logger: r.logger,
	}
}
