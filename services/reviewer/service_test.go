package reviewer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/resumelane/resumelane/models"
	"github.com/resumelane/resumelane/repositories"
	"github.com/resumelane/resumelane/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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
	return m
}

// MockExperienceRepository is a mock implementation of ExperienceRepository
type MockExperienceRepository struct {
	mock.Mock
}

func (m *MockExperienceRepository) Create(ctx context.Context, exp *models.Experience) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExperienceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Experience, error) {
	args := m.Called(ctx, id)
	if exp := args.Get(0); exp != nil {
		return exp.(*models.Experience), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockExperienceRepository) GetByReviewerID(ctx context.Context, reviewerID uuid.UUID) ([]*models.Experience, error) {
	args := m.Called(ctx, reviewerID)
	if exps := args.Get(0); exps != nil {
		return exps.([]*models.Experience), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockExperienceRepository) Update(ctx context.Context, exp *models.Experience) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExperienceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExperienceRepository) WithTx(tx repositories.Transaction) repositories.ExperienceRepository {
	return m
}

// fakeTx satisfies Transaction by running everything on the caller's context
type fakeTx struct {
	ctx context.Context
}

func (t fakeTx) Commit() error            { return nil }
func (t fakeTx) Rollback() error          { return nil }
func (t fakeTx) Context() context.Context { return t.ctx }

// fakeTxManager runs transactional functions inline
type fakeTxManager struct{}

func (fakeTxManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	return fakeTx{ctx: ctx}, nil
}

func (fakeTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	return fn(ctx, fakeTx{ctx: ctx})
}

func newTestService(reviewers *MockReviewerRepository, profiles *MockProfileRepository, experiences *MockExperienceRepository) *Service {
	return NewService(reviewers, profiles, experiences, fakeTxManager{}, zap.NewNop())
}

func manyWords(n int) string {
	words := make([]byte, 0, n*5)
	for i := 0; i < n; i++ {
		words = append(words, "word "...)
	}
	return string(words)
}

func TestBecome(t *testing.T) {
	ctx := context.Background()
	identityID := uuid.New()

	validInput := BecomeInput{
		DisplayName: "Jane Doe",
		Headline:    "Staff engineer reviewing backend resumes",
		Expertise:   "backend",
		SocialLink:  "https://www.LinkedIn.com/in/Jane/",
	}

	t.Run("creates reviewer and flips profile role atomically", func(t *testing.T) {
		reviewers := new(MockReviewerRepository)
		profiles := new(MockProfileRepository)
		svc := newTestService(reviewers, profiles, new(MockExperienceRepository))

		reviewers.On("ExistsByIdentityID", ctx, identityID).Return(false, nil)
		reviewers.On("SocialLinkExists", ctx, "linkedin.com/in/jane").Return(false, nil)
		reviewers.On("SlugExists", ctx, "jane-doe").Return(false, nil)
		reviewers.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Reviewer) bool {
			return r.IdentityID == identityID &&
				r.Slug == "jane-doe" &&
				r.SocialLink == "linkedin.com/in/jane"
		})).Return(nil)

		profile := models.NewProfile(identityID, "jane@example.com", "Jane Doe")
		profiles.On("GetByIdentityID", mock.Anything, identityID).Return(profile, nil)
		profiles.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
			return p.Role == "reviewer"
		})).Return(nil)

		rec, err := svc.Become(ctx, identityID, validInput)

		require.NoError(t, err)
		assert.Equal(t, "jane-doe", rec.Slug)
		reviewers.AssertExpectations(t)
		profiles.AssertExpectations(t)
	})

	t.Run("slug collision picks next suffix", func(t *testing.T) {
		reviewers := new(MockReviewerRepository)
		profiles := new(MockProfileRepository)
		svc := newTestService(reviewers, profiles, new(MockExperienceRepository))

		reviewers.On("ExistsByIdentityID", ctx, identityID).Return(false, nil)
		reviewers.On("SocialLinkExists", ctx, "linkedin.com/in/jane").Return(false, nil)
		reviewers.On("SlugExists", ctx, "jane-doe").Return(true, nil)
		reviewers.On("SlugExists", ctx, "jane-doe-1").Return(false, nil)
		reviewers.On("Create", mock.Anything, mock.Anything).Return(nil)

		profiles.On("GetByIdentityID", mock.Anything, identityID).
			Return(models.NewProfile(identityID, "jane@example.com", "Jane Doe"), nil)
		profiles.On("Update", mock.Anything, mock.Anything).Return(nil)

		rec, err := svc.Become(ctx, identityID, validInput)

		require.NoError(t, err)
		assert.Equal(t, "jane-doe-1", rec.Slug)
	})

	t.Run("existing reviewer record is a conflict", func(t *testing.T) {
		reviewers := new(MockReviewerRepository)
		svc := newTestService(reviewers, new(MockProfileRepository), new(MockExperienceRepository))

		reviewers.On("ExistsByIdentityID", ctx, identityID).Return(true, nil)

		_, err := svc.Become(ctx, identityID, validInput)
		assert.ErrorIs(t, err, services.ErrAlreadyReviewer)
	})

	t.Run("taken social link is a conflict even with different casing", func(t *testing.T) {
		reviewers := new(MockReviewerRepository)
		svc := newTestService(reviewers, new(MockProfileRepository), new(MockExperienceRepository))

		reviewers.On("ExistsByIdentityID", ctx, identityID).Return(false, nil)
		reviewers.On("SocialLinkExists", ctx, "linkedin.com/in/jane").Return(true, nil)

		input := validInput
		input.SocialLink = "http://linkedin.com/in/jane"
		_, err := svc.Become(ctx, identityID, input)
		assert.ErrorIs(t, err, services.ErrSocialLinkTaken)
	})

	t.Run("sixty word headline is rejected", func(t *testing.T) {
		svc := newTestService(new(MockReviewerRepository), new(MockProfileRepository), new(MockExperienceRepository))

		input := validInput
		input.Headline = manyWords(60)
		_, err := svc.Become(ctx, identityID, input)
		assert.ErrorIs(t, err, services.ErrHeadlineTooLong)
	})

	t.Run("fifty word headline is accepted", func(t *testing.T) {
		reviewers := new(MockReviewerRepository)
		profiles := new(MockProfileRepository)
		svc := newTestService(reviewers, profiles, new(MockExperienceRepository))

		reviewers.On("ExistsByIdentityID", ctx, identityID).Return(false, nil)
		reviewers.On("SocialLinkExists", ctx, mock.Anything).Return(false, nil)
		reviewers.On("SlugExists", ctx, mock.Anything).Return(false, nil)
		reviewers.On("Create", mock.Anything, mock.Anything).Return(nil)
		profiles.On("GetByIdentityID", mock.Anything, identityID).
			Return(models.NewProfile(identityID, "jane@example.com", "Jane Doe"), nil)
		profiles.On("Update", mock.Anything, mock.Anything).Return(nil)

		input := validInput
		input.Headline = manyWords(50)
		_, err := svc.Become(ctx, identityID, input)
		assert.NoError(t, err)
	})
}

func TestUpdatePage(t *testing.T) {
	ctx := context.Background()
	identityID := uuid.New()

	existing := func() *models.Reviewer {
		return &models.Reviewer{
			ID:          uuid.New(),
			IdentityID:  identityID,
			Slug:        "jane-doe",
			DisplayName: "Jane Doe",
			SocialLink:  "linkedin.com/in/jane",
		}
	}

	t.Run("rename keeps the slug", func(t *testing.T) {
		reviewers := new(MockReviewerRepository)
		svc := newTestService(reviewers, new(MockProfileRepository), new(MockExperienceRepository))

		rec := existing()
		reviewers.On("GetByIdentityID", ctx, identityID).Return(rec, nil)
		reviewers.On("Update", ctx, rec).Return(nil)

		name := "Jane Smith"
		updated, err := svc.UpdatePage(ctx, identityID, UpdatePageInput{DisplayName: &name})

		require.NoError(t, err)
		assert.Equal(t, "Jane Smith", updated.DisplayName)
		assert.Equal(t, "jane-doe", updated.Slug)
	})

	t.Run("unchanged social link skips the uniqueness check", func(t *testing.T) {
		reviewers := new(MockReviewerRepository)
		svc := newTestService(reviewers, new(MockProfileRepository), new(MockExperienceRepository))

		rec := existing()
		reviewers.On("GetByIdentityID", ctx, identityID).Return(rec, nil)
		reviewers.On("Update", ctx, rec).Return(nil)

		link := "https://www.LinkedIn.com/in/Jane/"
		_, err := svc.UpdatePage(ctx, identityID, UpdatePageInput{SocialLink: &link})

		require.NoError(t, err)
		reviewers.AssertNotCalled(t, "SocialLinkExists", mock.Anything, mock.Anything)
	})

	t.Run("no reviewer record is not found", func(t *testing.T) {
		reviewers := new(MockReviewerRepository)
		svc := newTestService(reviewers, new(MockProfileRepository), new(MockExperienceRepository))

		reviewers.On("GetByIdentityID", ctx, identityID).Return(nil, repositories.ErrNotFound)

		name := "Jane Smith"
		_, err := svc.UpdatePage(ctx, identityID, UpdatePageInput{DisplayName: &name})
		assert.ErrorIs(t, err, services.ErrReviewerNotFound)
	})
}

func TestExperienceOwnership(t *testing.T) {
	ctx := context.Background()
	identityID := uuid.New()

	t.Run("foreign experience is forbidden", func(t *testing.T) {
		reviewers := new(MockReviewerRepository)
		experiences := new(MockExperienceRepository)
		svc := newTestService(reviewers, new(MockProfileRepository), experiences)

		own := &models.Reviewer{ID: uuid.New(), IdentityID: identityID}
		foreign := &models.Experience{ID: uuid.New(), ReviewerID: uuid.New()}

		reviewers.On("GetByIdentityID", ctx, identityID).Return(own, nil)
		experiences.On("GetByID", ctx, foreign.ID).Return(foreign, nil)

		err := svc.DeleteExperience(ctx, identityID, foreign.ID)
		assert.ErrorIs(t, err, services.ErrNotResourceOwner)
		experiences.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("own experience deletes", func(t *testing.T) {
		reviewers := new(MockReviewerRepository)
		experiences := new(MockExperienceRepository)
		svc := newTestService(reviewers, new(MockProfileRepository), experiences)

		own := &models.Reviewer{ID: uuid.New(), IdentityID: identityID}
		exp := &models.Experience{ID: uuid.New(), ReviewerID: own.ID, StartDate: time.Now()}

		reviewers.On("GetByIdentityID", ctx, identityID).Return(own, nil)
		experiences.On("GetByID", ctx, exp.ID).Return(exp, nil)
		experiences.On("Delete", ctx, exp.ID).Return(nil)

		assert.NoError(t, svc.DeleteExperience(ctx, identityID, exp.ID))
		experiences.AssertExpectations(t)
	})
}
