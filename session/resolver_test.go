package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/resumelane/resumelane/authz"
	"github.com/resumelane/resumelane/config"
	"github.com/resumelane/resumelane/models"
	"github.com/resumelane/resumelane/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetByIdentityID(ctx context.Context, identityID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, identityID)
	if profile := args.Get(0); profile != nil {
		return profile.(*models.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) WithTx(tx repositories.Transaction) repositories.ProfileRepository {
	args := m.Called(tx)
	return args.Get(0).(repositories.ProfileRepository)
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
	if reviewer := args.Get(0); reviewer != nil {
		return reviewer.(*models.Reviewer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewerRepository) GetByIdentityID(ctx context.Context, identityID uuid.UUID) (*models.Reviewer, error) {
	args := m.Called(ctx, identityID)
	if reviewer := args.Get(0); reviewer != nil {
		return reviewer.(*models.Reviewer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewerRepository) GetBySlug(ctx context.Context, slug string) (*models.Reviewer, error) {
	args := m.Called(ctx, slug)
	if reviewer := args.Get(0); reviewer != nil {
		return reviewer.(*models.Reviewer), args.Error(1)
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
	if reviewers := args.Get(0); reviewers != nil {
		return reviewers.([]*models.Reviewer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewerRepository) Update(ctx context.Context, reviewer *models.Reviewer) error {
	args := m.Called(ctx, reviewer)
	return args.Error(0)
}

func (m *MockReviewerRepository) WithTx(tx repositories.Transaction) repositories.ReviewerRepository {
	args := m.Called(tx)
	return args.Get(0).(repositories.ReviewerRepository)
}

func newTestResolver(profiles *MockProfileRepository, reviewers *MockReviewerRepository, adminEmails ...string) *Resolver {
	logger := zap.NewNop()
	return NewResolver(profiles, reviewers, config.AdminConfig{AllowedEmails: adminEmails}, logger)
}

func TestResolver_NoIdentity(t *testing.T) {
	resolver := newTestResolver(new(MockProfileRepository), new(MockReviewerRepository))

	assert.Nil(t, resolver.Resolve(context.Background(), nil))
	assert.Nil(t, resolver.Resolve(context.Background(), &Identity{}))
}

func TestResolver_AdminAllowList(t *testing.T) {
	profiles := new(MockProfileRepository)
	reviewers := new(MockReviewerRepository)
	resolver := newTestResolver(profiles, reviewers, "ops@resumelane.dev")

	identity := &Identity{ID: uuid.New(), Email: "Ops@ResumeLane.dev", Name: "Ops"}
	profiles.On("GetByIdentityID", mock.Anything, identity.ID).
		Return(&models.Profile{IdentityID: identity.ID, Role: "user"}, nil)

	sess := resolver.Resolve(context.Background(), identity)

	assert.NotNil(t, sess)
	assert.Equal(t, authz.RoleAdmin, sess.Role)
	assert.True(t, sess.HasPermission(authz.PermManageSystem))
	// the allow-list outranks the stored role
	reviewers.AssertNotCalled(t, "ExistsByIdentityID", mock.Anything, mock.Anything)
}

func TestResolver_StoredRoleWins(t *testing.T) {
	profiles := new(MockProfileRepository)
	reviewers := new(MockReviewerRepository)
	resolver := newTestResolver(profiles, reviewers)

	identity := &Identity{ID: uuid.New(), Email: "jane@example.com"}
	profiles.On("GetByIdentityID", mock.Anything, identity.ID).
		Return(&models.Profile{IdentityID: identity.ID, Role: "reviewer", Onboarded: true}, nil)

	sess := resolver.Resolve(context.Background(), identity)

	assert.NotNil(t, sess)
	assert.Equal(t, authz.RoleReviewer, sess.Role)
	assert.True(t, sess.Onboarded)
	reviewers.AssertNotCalled(t, "ExistsByIdentityID", mock.Anything, mock.Anything)
}

func TestResolver_ReviewerInference(t *testing.T) {
	identity := &Identity{ID: uuid.New(), Email: "jane@example.com"}

	t.Run("invalid stored role falls through to reviewer record", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		reviewers := new(MockReviewerRepository)
		resolver := newTestResolver(profiles, reviewers)

		profiles.On("GetByIdentityID", mock.Anything, identity.ID).
			Return(&models.Profile{IdentityID: identity.ID, Role: "moderator"}, nil)
		reviewers.On("ExistsByIdentityID", mock.Anything, identity.ID).Return(true, nil)

		sess := resolver.Resolve(context.Background(), identity)
		assert.NotNil(t, sess)
		assert.Equal(t, authz.RoleReviewer, sess.Role)
	})

	t.Run("no reviewer record defaults to user", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		reviewers := new(MockReviewerRepository)
		resolver := newTestResolver(profiles, reviewers)

		profiles.On("GetByIdentityID", mock.Anything, identity.ID).
			Return(&models.Profile{IdentityID: identity.ID, Role: ""}, nil)
		reviewers.On("ExistsByIdentityID", mock.Anything, identity.ID).Return(false, nil)

		sess := resolver.Resolve(context.Background(), identity)
		assert.NotNil(t, sess)
		assert.Equal(t, authz.RoleUser, sess.Role)
		assert.True(t, sess.HasPermission(authz.PermUploadResume))
		assert.False(t, sess.HasPermission(authz.PermReviewResumes))
	})
}

func TestResolver_ProfileAutoCreate(t *testing.T) {
	profiles := new(MockProfileRepository)
	reviewers := new(MockReviewerRepository)
	resolver := newTestResolver(profiles, reviewers)

	identity := &Identity{ID: uuid.New(), Email: "new@example.com", Name: "New User"}
	profiles.On("GetByIdentityID", mock.Anything, identity.ID).
		Return(nil, repositories.ErrNotFound)
	profiles.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
		return p.IdentityID == identity.ID && p.Role == "user" && !p.Onboarded
	})).Return(nil)
	reviewers.On("ExistsByIdentityID", mock.Anything, identity.ID).Return(false, nil)

	sess := resolver.Resolve(context.Background(), identity)

	assert.NotNil(t, sess)
	assert.Equal(t, authz.RoleUser, sess.Role)
	assert.False(t, sess.Onboarded)
	profiles.AssertExpectations(t)
}

func TestResolver_FailsClosed(t *testing.T) {
	identity := &Identity{ID: uuid.New(), Email: "jane@example.com"}

	t.Run("profile fetch error", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		resolver := newTestResolver(profiles, new(MockReviewerRepository))

		profiles.On("GetByIdentityID", mock.Anything, identity.ID).
			Return(nil, errors.New("connection refused"))

		assert.Nil(t, resolver.Resolve(context.Background(), identity))
	})

	t.Run("profile auto-create error", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		resolver := newTestResolver(profiles, new(MockReviewerRepository))

		profiles.On("GetByIdentityID", mock.Anything, identity.ID).
			Return(nil, repositories.ErrNotFound)
		profiles.On("Create", mock.Anything, mock.Anything).
			Return(errors.New("connection refused"))

		assert.Nil(t, resolver.Resolve(context.Background(), identity))
	})

	t.Run("reviewer inference error", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		reviewers := new(MockReviewerRepository)
		resolver := newTestResolver(profiles, reviewers)

		profiles.On("GetByIdentityID", mock.Anything, identity.ID).
			Return(&models.Profile{IdentityID: identity.ID, Role: ""}, nil)
		reviewers.On("ExistsByIdentityID", mock.Anything, identity.ID).
			Return(false, errors.New("connection refused"))

		assert.Nil(t, resolver.Resolve(context.Background(), identity))
	})
}
