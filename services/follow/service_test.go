package follow

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/resumelane/resumelane/models"
	"github.com/resumelane/resumelane/repositories"
	"github.com/resumelane/resumelane/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockFollowRepository is a mock implementation of FollowRepository
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Upsert(ctx context.Context, followerID, reviewerIdentityID uuid.UUID) error {
	args := m.Called(ctx, followerID, reviewerIdentityID)
	return args.Error(0)
}

func (m *MockFollowRepository) Delete(ctx context.Context, followerID, reviewerIdentityID uuid.UUID) error {
	args := m.Called(ctx, followerID, reviewerIdentityID)
	return args.Error(0)
}

func (m *MockFollowRepository) Exists(ctx context.Context, followerID, reviewerIdentityID uuid.UUID) (bool, error) {
	args := m.Called(ctx, followerID, reviewerIdentityID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) CountByReviewer(ctx context.Context, reviewerIdentityID uuid.UUID) (int, error) {
	args := m.Called(ctx, reviewerIdentityID)
	return args.Int(0), args.Error(1)
}

func (m *MockFollowRepository) WithTx(tx repositories.Transaction) repositories.FollowRepository {
	return m
}

// MockReviewerRepository is a mock implementation of ReviewerRepository
type MockReviewerRepository struct {
	mock.Mock
}

func (m *MockReviewerRepository) Create(ctx context.Context, reviewer *models.Reviewer) error {
	args := m.Called(ctx, reviewer)
	return args.Error(0)
}

func (m *MockReviewerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Reviewer, error) {
	args := m.Called(ctx, id)
	if rec := args.Get(0); rec != nil {
		return rec.(*models.Reviewer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewerRepository) GetByIdentityID(ctx context.Context, identityID uuid.UUID) (*models.Reviewer, error) {
	args := m.Called(ctx, identityID)
	if rec := args.Get(0); rec != nil {
		return rec.(*models.Reviewer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewerRepository) GetBySlug(ctx context.Context, slug string) (*models.Reviewer, error) {
	args := m.Called(ctx, slug)
	if rec := args.Get(0); rec != nil {
		return rec.(*models.Reviewer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewerRepository) SocialLinkExists(ctx context.Context, normalized string) (bool, error) {
	args := m.Called(ctx, normalized)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewerRepository) ExistsByIdentityID(ctx context.Context, identityID uuid.UUID) (bool, error) {
	args := m.Called(ctx, identityID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewerRepository) List(ctx context.Context, expertise string, limit, offset int) ([]*models.Reviewer, error) {
	args := m.Called(ctx, expertise, limit, offset)
	if recs := args.Get(0); recs != nil {
		return recs.([]*models.Reviewer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewerRepository) Update(ctx context.Context, reviewer *models.Reviewer) error {
	args := m.Called(ctx, reviewer)
	return args.Error(0)
}

func (m *MockReviewerRepository) WithTx(tx repositories.Transaction) repositories.ReviewerRepository {
	return m
}

func newTestService(follows *MockFollowRepository, reviewers *MockReviewerRepository) *Service {
	return NewService(follows, reviewers, zap.NewNop())
}

func TestFollow(t *testing.T) {
	ctx := context.Background()
	follower := uuid.New()
	reviewer := uuid.New()

	t.Run("follow upserts the pair", func(t *testing.T) {
		follows := new(MockFollowRepository)
		reviewers := new(MockReviewerRepository)
		svc := newTestService(follows, reviewers)

		reviewers.On("ExistsByIdentityID", ctx, reviewer).Return(true, nil)
		follows.On("Upsert", ctx, follower, reviewer).Return(nil)

		require.NoError(t, svc.Follow(ctx, follower, reviewer))
		follows.AssertExpectations(t)
	})

	t.Run("repeated follow is a no-op", func(t *testing.T) {
		follows := new(MockFollowRepository)
		reviewers := new(MockReviewerRepository)
		svc := newTestService(follows, reviewers)

		reviewers.On("ExistsByIdentityID", ctx, reviewer).Return(true, nil)
		// ON CONFLICT DO NOTHING makes the second upsert indistinguishable
		follows.On("Upsert", ctx, follower, reviewer).Return(nil).Twice()

		require.NoError(t, svc.Follow(ctx, follower, reviewer))
		require.NoError(t, svc.Follow(ctx, follower, reviewer))
		follows.AssertExpectations(t)
	})

	t.Run("following a non-reviewer identity is refused", func(t *testing.T) {
		follows := new(MockFollowRepository)
		reviewers := new(MockReviewerRepository)
		svc := newTestService(follows, reviewers)

		reviewers.On("ExistsByIdentityID", ctx, reviewer).Return(false, nil)

		err := svc.Follow(ctx, follower, reviewer)
		assert.ErrorIs(t, err, services.ErrReviewerNotFound)
		follows.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUnfollow(t *testing.T) {
	ctx := context.Background()
	follower := uuid.New()
	reviewer := uuid.New()

	t.Run("unfollow removes the pair", func(t *testing.T) {
		follows := new(MockFollowRepository)
		reviewers := new(MockReviewerRepository)
		svc := newTestService(follows, reviewers)

		reviewers.On("ExistsByIdentityID", ctx, reviewer).Return(true, nil)
		follows.On("Delete", ctx, follower, reviewer).Return(nil)

		require.NoError(t, svc.Unfollow(ctx, follower, reviewer))
		follows.AssertExpectations(t)
	})

	t.Run("unfollow of an absent pair succeeds", func(t *testing.T) {
		follows := new(MockFollowRepository)
		reviewers := new(MockReviewerRepository)
		svc := newTestService(follows, reviewers)

		reviewers.On("ExistsByIdentityID", ctx, reviewer).Return(true, nil)
		follows.On("Delete", ctx, follower, reviewer).Return(nil)

		require.NoError(t, svc.Unfollow(ctx, follower, reviewer))
	})
}

func TestFollowState(t *testing.T) {
	ctx := context.Background()
	follower := uuid.New()
	reviewer := uuid.New()

	t.Run("is following", func(t *testing.T) {
		follows := new(MockFollowRepository)
		svc := newTestService(follows, new(MockReviewerRepository))

		follows.On("Exists", ctx, follower, reviewer).Return(true, nil)

		following, err := svc.IsFollowing(ctx, follower, reviewer)
		require.NoError(t, err)
		assert.True(t, following)
	})

	t.Run("follower count maps the page id to the identity id", func(t *testing.T) {
		follows := new(MockFollowRepository)
		reviewers := new(MockReviewerRepository)
		svc := newTestService(follows, reviewers)

		rec := &models.Reviewer{ID: uuid.New(), IdentityID: reviewer}
		reviewers.On("GetByID", ctx, rec.ID).Return(rec, nil)
		follows.On("CountByReviewer", ctx, reviewer).Return(42, nil)

		count, err := svc.FollowerCount(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, 42, count)
	})

	t.Run("follower count of an unknown reviewer", func(t *testing.T) {
		follows := new(MockFollowRepository)
		reviewers := new(MockReviewerRepository)
		svc := newTestService(follows, reviewers)

		id := uuid.New()
		reviewers.On("GetByID", ctx, id).Return(nil, repositories.ErrNotFound)

		_, err := svc.FollowerCount(ctx, id)
		assert.ErrorIs(t, err, services.ErrReviewerNotFound)
	})
}
