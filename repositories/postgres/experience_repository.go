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

// ExperienceRepository implements the repositories.ExperienceRepository interface
type ExperienceRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewExperienceRepository creates a new experience repository
func NewExperienceRepository(db *DB, logger *zap.Logger) repositories.ExperienceRepository {
	return &ExperienceRepository{
		db:     db,
		logger: logger,
	}
}

const experienceColumns = `id, reviewer_id, title, company, start_date, end_date, summary, created_at, updated_at`

// Create creates a new experience entry
func (r *ExperienceRepository) Create(ctx context.Context, exp *models.Experience) error {
	query := `
		INSERT INTO experiences (id, reviewer_id, title, company, start_date, end_date, summary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		exp.ID,
		exp.ReviewerID,
		exp.Title,
		exp.Company,
		exp.StartDate,
		exp.EndDate,
		exp.Summary,
		exp.CreatedAt,
		exp.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create experience: %w", err)
	}

	r.logger.Debug("experience created",
		zap.String("id", exp.ID.String()),
		zap.String("reviewer_id", exp.ReviewerID.String()))
	return nil
}

// GetByID retrieves an experience entry by id
func (r *ExperienceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Experience, error) {
	query := `SELECT ` + experienceColumns + ` FROM experiences WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	exp := &models.Experience{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&exp.ID,
		&exp.ReviewerID,
		&exp.Title,
		&exp.Company,
		&exp.StartDate,
		&exp.EndDate,
		&exp.Summary,
		&exp.CreatedAt,
		&exp.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("experience %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get experience: %w", err)
	}

	return exp, nil
}

// GetByReviewerID retrieves all experience entries for a reviewer
func (r *ExperienceRepository) GetByReviewerID(ctx context.Context, reviewerID uuid.UUID) ([]*models.Experience, error) {
	query := `
		SELECT ` + experienceColumns + `
		FROM experiences
		WHERE reviewer_id = $1
		ORDER BY start_date DESC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query experiences: %w", err)
	}
	defer rows.Close()

	var exps []*models.Experience
	for rows.Next() {
		exp := &models.Experience{}
		err := rows.Scan(
			&exp.ID,
			&exp.ReviewerID,
			&exp.Title,
			&exp.Company,
			&exp.StartDate,
			&exp.EndDate,
			&exp.Summary,
			&exp.CreatedAt,
			&exp.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		exps = append(exps, exp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating experience rows: %w", err)
	}

	return exps, nil
}

// Update updates an experience entry
func (r *ExperienceRepository) Update(ctx context.Context, exp *models.Experience) error {
	query := `
		UPDATE experiences
		SET title = $2,
		    company = $3,
		    start_date = $4,
		    end_date = $5,
		    summary = $6,
		    updated_at = $7
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		exp.ID,
		exp.Title,
		exp.Company,
		exp.StartDate,
		exp.EndDate,
		exp.Summary,
		exp.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update experience: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("experience %s: %w", exp.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("experience updated", zap.String("id", exp.ID.String()))
	return nil
}

// Delete deletes an experience entry
func (r *ExperienceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM experiences WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete experience: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("experience %s: %w", id, repositories.ErrNotFound)
	}

	r.logger.Debug("experience deleted", zap.String("id", id.String()))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *ExperienceRepository) WithTx(tx repositories.Transaction) repositories.ExperienceRepository {
	return &ExperienceRepository{
		db:     r.db,
		logger: r.logger,
	}
}
