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

// ReviewRepository implements the repositories.ReviewRepository interface
type ReviewRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *DB, logger *zap.Logger) repositories.ReviewRepository {
	return &ReviewRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new review
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (id, resume_id, reviewer_id, score, feedback, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		review.ID,
		review.ResumeID,
		review.ReviewerID,
		review.Score,
		review.Feedback,
		review.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	r.logger.Debug("review created",
		zap.String("id", review.ID.String()),
		zap.String("resume_id", review.ResumeID.String()),
		zap.Int("score", review.Score))
	return nil
}

// GetByResumeID retrieves all reviews of a resume
func (r *ReviewRepository) GetByResumeID(ctx context.Context, resumeID uuid.UUID) ([]*models.Review, error) {
	query := `
		SELECT id, resume_id, reviewer_id, score, feedback, created_at
		FROM reviews
		WHERE resume_id = $1
		ORDER BY created_at DESC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, resumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

// GetByReviewerID retrieves all reviews written by a reviewer with pagination
func (r *ReviewRepository) GetByReviewerID(ctx context.Context, reviewerID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	query := `
		SELECT id, resume_id, reviewer_id, score, feedback, created_at
		FROM reviews
		WHERE reviewer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, reviewerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	return scanReviews(rows)
}

func scanReviews(rows *sql.Rows) ([]*models.Review, error) {
	var reviews []*models.Review
	for rows.Next() {
		review := &models.Review{}
		err := rows.Scan(
			&review.ID,
			&review.ResumeID,
			&review.ReviewerID,
			&review.Score,
			&review.Feedback,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review rows: %w", err)
	}

	return reviews, nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *ReviewRepository) WithTx(tx repositories.Transaction) repositories.ReviewRepository {
	return &ReviewRepository{
		db:     r.db,
		logger: r.logger,
	}
}
