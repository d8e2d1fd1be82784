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

// ReviewerRepository implements the repositories.ReviewerRepository interface
type ReviewerRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewReviewerRepository creates a new reviewer repository
func NewReviewerRepository(db *DB, logger *zap.Logger) repositories.ReviewerRepository {
	return &ReviewerRepository{
		db:     db,
		logger: logger,
	}
}

const reviewerColumns = `id, identity_id, slug, display_name, headline, expertise,
	social_link, rating, review_count, created_at, updated_at`

func scanReviewer(row *sql.Row) (*models.Reviewer, error) {
	rev := &models.Reviewer{}
	err := row.Scan(
		&rev.ID,
		&rev.IdentityID,
		&rev.Slug,
		&rev.DisplayName,
		&rev.Headline,
		&rev.Expertise,
		&rev.SocialLink,
		&rev.Rating,
		&rev.ReviewCount,
		&rev.CreatedAt,
		&rev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// Create creates a new reviewer record
func (r *ReviewerRepository) Create(ctx context.Context, reviewer *models.Reviewer) error {
	query := `
		INSERT INTO reviewers (id, identity_id, slug, display_name, headline, expertise,
			social_link, rating, review_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		reviewer.ID,
		reviewer.IdentityID,
		reviewer.Slug,
		reviewer.DisplayName,
		reviewer.Headline,
		reviewer.Expertise,
		reviewer.SocialLink,
		reviewer.Rating,
		reviewer.ReviewCount,
		reviewer.CreatedAt,
		reviewer.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create reviewer: %w", err)
	}

	r.logger.Debug("reviewer created",
		zap.String("id", reviewer.ID.String()),
		zap.String("slug", reviewer.Slug))
	return nil
}

// GetByID retrieves a reviewer by row id
func (r *ReviewerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Reviewer, error) {
	query := `SELECT ` + reviewerColumns + ` FROM reviewers WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	rev, err := scanReviewer(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("reviewer %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reviewer: %w", err)
	}

	return rev, nil
}

// GetByIdentityID retrieves a reviewer by the owning identity id
func (r *ReviewerRepository) GetByIdentityID(ctx context.Context, identityID uuid.UUID) (*models.Reviewer, error) {
	query := `SELECT ` + reviewerColumns + ` FROM reviewers WHERE identity_id = $1`

	executor := GetExecutor(ctx, r.db)
	rev, err := scanReviewer(executor.QueryRowContext(ctx, query, identityID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("reviewer for identity %s: %w", identityID, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reviewer: %w", err)
	}

	return rev, nil
}

// GetBySlug retrieves a reviewer by slug
func (r *ReviewerRepository) GetBySlug(ctx context.Context, slug string) (*models.Reviewer, error) {
	query := `SELECT ` + reviewerColumns + ` FROM reviewers WHERE slug = $1`

	executor := GetExecutor(ctx, r.db)
	rev, err := scanReviewer(executor.QueryRowContext(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("reviewer slug %q: %w", slug, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reviewer: %w", err)
	}

	return rev, nil
}

// SlugExists reports whether a slug is already taken
func (r *ReviewerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviewers WHERE slug = $1)`

	executor := GetExecutor(ctx, r.db)
	var exists bool
	if err := executor.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}

	return exists, nil
}

// SocialLinkExists reports whether a normalized social link already backs a reviewer
func (r *ReviewerRepository) SocialLinkExists(ctx context.Context, normalized string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviewers WHERE social_link = $1)`

	executor := GetExecutor(ctx, r.db)
	var exists bool
	if err := executor.QueryRowContext(ctx, query, normalized).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check social link: %w", err)
	}

	return exists, nil
}

// ExistsByIdentityID reports whether the identity already has a reviewer record
func (r *ReviewerRepository) ExistsByIdentityID(ctx context.Context, identityID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviewers WHERE identity_id = $1)`

	executor := GetExecutor(ctx, r.db)
	var exists bool
	if err := executor.QueryRowContext(ctx, query, identityID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check reviewer record: %w", err)
	}

	return exists, nil
}

// List retrieves reviewers with an optional expertise filter and pagination
func (r *ReviewerRepository) List(ctx context.Context, expertise string, limit, offset int) ([]*models.Reviewer, error) {
	query := `
		SELECT ` + reviewerColumns + `
		FROM reviewers
		WHERE ($1 = '' OR expertise = $1)
		ORDER BY rating DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, expertise, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviewers: %w", err)
	}
	defer rows.Close()

	var reviewers []*models.Reviewer
	for rows.Next() {
		rev := &models.Reviewer{}
		err := rows.Scan(
			&rev.ID,
			&rev.IdentityID,
			&rev.Slug,
			&rev.DisplayName,
			&rev.Headline,
			&rev.Expertise,
			&rev.SocialLink,
			&rev.Rating,
			&rev.ReviewCount,
			&rev.CreatedAt,
			&rev.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reviewer: %w", err)
		}
		reviewers = append(reviewers, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviewer rows: %w", err)
	}

	return reviewers, nil
}

// Update updates a reviewer record
func (r *ReviewerRepository) Update(ctx context.Context, reviewer *models.Reviewer) error {
	query := `
		UPDATE reviewers
		SET display_name = $2,
		    headline = $3,
		    expertise = $4,
		    social_link = $5,
		    rating = $6,
		    review_count = $7,
		    updated_at = $8
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		reviewer.ID,
		reviewer.DisplayName,
		reviewer.Headline,
		reviewer.Expertise,
		reviewer.SocialLink,
		reviewer.Rating,
		reviewer.ReviewCount,
		reviewer.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update reviewer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("reviewer %s: %w", reviewer.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("reviewer updated", zap.String("id", reviewer.ID.String()))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *ReviewerRepository) WithTx(tx repositories.Transaction) repositories.ReviewerRepository {
	return &ReviewerRepository{
		db:     r.db,
		logger: r.logger,
	}
}
