package reviewer

import (
	"context"
	"testing"

	"github.com/resumelane/resumelane/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Jane Doe", "jane-doe"},
		{"JANE DOE", "jane-doe"},
		{"jane   doe", "jane-doe"},
		{"Jane O'Brien", "jane-o-brien"},
		{"  Jane Doe  ", "jane-doe"},
		{"Jane Doe 2", "jane-doe-2"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Slugify(tt.name), "Slugify(%q)", tt.name)
	}
}

func TestAssignSlug(t *testing.T) {
	ctx := context.Background()

	t.Run("free slug is used as-is", func(t *testing.T) {
		repo := new(MockReviewerRepository)
		repo.On("SlugExists", ctx, "alice").Return(false, nil)

		slug, err := assignSlug(ctx, repo, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", slug)
	})

	t.Run("collisions append a numeric suffix", func(t *testing.T) {
		repo := new(MockReviewerRepository)
		repo.On("SlugExists", ctx, "alice").Return(true, nil)
		repo.On("SlugExists", ctx, "alice-1").Return(true, nil)
		repo.On("SlugExists", ctx, "alice-2").Return(false, nil)

		slug, err := assignSlug(ctx, repo, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice-2", slug)
	})

	t.Run("exhausting all attempts is a conflict", func(t *testing.T) {
		repo := new(MockReviewerRepository)
		repo.On("SlugExists", ctx, mock.AnythingOfType("string")).Return(true, nil)

		_, err := assignSlug(ctx, repo, "alice")
		assert.ErrorIs(t, err, services.ErrSlugExhausted)
	})

	t.Run("empty base is a validation error", func(t *testing.T) {
		_, err := assignSlug(ctx, new(MockReviewerRepository), "")
		assert.ErrorIs(t, err, services.ErrInvalidSlug)
	})
}
