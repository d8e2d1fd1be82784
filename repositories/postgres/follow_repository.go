package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/resumelane/resumelane/repositories"
	"go.uber.org/zap"
)

// FollowRepository implements the repositories.FollowRepository interface
type FollowRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *DB, logger *zap.Logger) repositories.FollowRepository {
	return &FollowRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert records a follow; inserting an existing pair is a no-op
func (r *FollowRepository) Upsert(ctx context.Context, followerID, reviewerIdentityID uuid.UUID) error {
	query := `
		INSERT INTO follows (follower_id, reviewer_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (follower_id, reviewer_id) DO NOTHING
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query, followerID, reviewerIdentityID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert follow: %w", err)
	}

	r.logger.Debug("follow recorded",
		zap.String("follower_id", followerID.String()),
		zap.String("reviewer_id", reviewerIdentityID.String()))
	return nil
}

// Delete removes a follow; deleting an absent pair is a no-op
func (r *FollowRepository) Delete(ctx context.Context, followerID, reviewerIdentityID uuid.UUID) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND reviewer_id = $2`

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, query, followerID, reviewerIdentityID); err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	return nil
}

// Exists reports the current follow state for a pair
func (r *FollowRepository) Exists(ctx context.Context, followerID, reviewerIdentityID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND reviewer_id = $2)`

	executor := GetExecutor(ctx, r.db)
	var exists bool
	if err := executor.QueryRowContext(ctx, query, followerID, reviewerIdentityID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}

	return exists, nil
}

// CountByReviewer returns the follower count for a reviewer's identity
func (r *FollowRepository) CountByReviewer(ctx context.Context, reviewerIdentityID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM follows WHERE reviewer_id = $1`

	executor := GetExecutor(ctx, r.db)
	var count int
	if err := executor.QueryRowContext(ctx, query, reviewerIdentityID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}

	return count, nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *FollowRepository) WithTx(tx repositories.Transaction) repositories.FollowRepository {
	return &FollowRepository{
		db:     r.db,
		logger: r.logger,
	}
}
