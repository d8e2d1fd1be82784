// Package follow implements the follower relationship between identities and
// reviewer accounts.
package follow

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/resumelane/resumelane/repositories"
	"github.com/resumelane/resumelane/services"
	"go.uber.org/zap"
)

// Service handles follow business logic. Pairs are keyed
// (follower identity id, reviewer identity id); both directions of the state
// change are idempotent so clients can retry freely.
type Service struct {
	follows   repositories.FollowRepository
	reviewers repositories.ReviewerRepository
	logger    *zap.Logger
}

// NewService creates a new follow service
func NewService(
	follows repositories.FollowRepository,
	reviewers repositories.ReviewerRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		follows:   follows,
		reviewers: reviewers,
		logger:    logger,
	}
}

// Follow records that followerID follows the reviewer behind
// reviewerIdentityID. Following an already-followed reviewer is a no-op.
func (s *Service) Follow(ctx context.Context, followerID, reviewerIdentityID uuid.UUID) error {
	if err := s.ensureReviewer(ctx, reviewerIdentityID); err != nil {
		return err
	}

	if err := s.follows.Upsert(ctx, followerID, reviewerIdentityID); err != nil {
		return services.WrapDatabase("failed to record follow", err)
	}

	s.logger.Debug("follow recorded",
		zap.String("follower_id", followerID.String()),
		zap.String("reviewer_identity_id", reviewerIdentityID.String()),
	)
	return nil
}

// Unfollow removes the follow pair. Unfollowing a reviewer that was never
// followed is a no-op.
func (s *Service) Unfollow(ctx context.Context, followerID, reviewerIdentityID uuid.UUID) error {
	if err := s.ensureReviewer(ctx, reviewerIdentityID); err != nil {
		return err
	}

	if err := s.follows.Delete(ctx, followerID, reviewerIdentityID); err != nil {
		return services.WrapDatabase("failed to remove follow", err)
	}
	return nil
}

// IsFollowing reports the current follow state for the pair
func (s *Service) IsFollowing(ctx context.Context, followerID, reviewerIdentityID uuid.UUID) (bool, error) {
	following, err := s.follows.Exists(ctx, followerID, reviewerIdentityID)
	if err != nil {
		return false, services.WrapDatabase("failed to check follow state", err)
	}
	return following, nil
}

// FollowerCount returns the number of identities following a reviewer.
// It takes the reviewer row id, the public page identifier, and maps it to
// the identity id the follow pairs are keyed on.
func (s *Service) FollowerCount(ctx context.Context, reviewerID uuid.UUID) (int, error) {
	rec, err := s.reviewers.GetByID(ctx, reviewerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, services.ErrReviewerNotFound
		}
		return 0, services.WrapDatabase("failed to get reviewer", err)
	}

	count, err := s.follows.CountByReviewer(ctx, rec.IdentityID)
	if err != nil {
		return 0, services.WrapDatabase("failed to count followers", err)
	}
	return count, nil
}

// ensureReviewer rejects operations against identities that have no reviewer
// record, so follows cannot point at arbitrary users.
func (s *Service) ensureReviewer(ctx context.Context, reviewerIdentityID uuid.UUID) error {
	exists, err := s.reviewers.ExistsByIdentityID(ctx, reviewerIdentityID)
	if err != nil {
		return services.WrapDatabase("failed to check reviewer record", err)
	}
	if !exists {
		return services.ErrReviewerNotFound
	}
	return nil
}
