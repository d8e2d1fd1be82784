package reviewer

import (
	"testing"

	"github.com/resumelane/resumelane/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSocialLink(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"https://www.LinkedIn.com/in/Jane/", "linkedin.com/in/jane"},
		{"http://linkedin.com/in/jane", "linkedin.com/in/jane"},
		{"linkedin.com/in/jane", "linkedin.com/in/jane"},
		{"https://GitHub.com/JaneDoe", "github.com/janedoe"},
		{"https://x.com/jane?ref=promo", "x.com/jane"},
		{"https://jane.dev", "jane.dev"},
		{"  https://jane.dev/  ", "jane.dev"},
	}

	for _, tt := range tests {
		got, err := NormalizeSocialLink(tt.raw)
		require.NoError(t, err, "NormalizeSocialLink(%q)", tt.raw)
		assert.Equal(t, tt.expected, got, "NormalizeSocialLink(%q)", tt.raw)
	}
}

func TestNormalizeSocialLink_EquivalentFormsCollide(t *testing.T) {
	a, err := NormalizeSocialLink("https://www.LinkedIn.com/in/Jane/")
	require.NoError(t, err)
	b, err := NormalizeSocialLink("http://linkedin.com/in/jane")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestNormalizeSocialLink_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"ftp://example.com/jane",
		"not a url at all",
		"https://",
		"https://localhost/jane",
	} {
		_, err := NormalizeSocialLink(raw)
		assert.ErrorIs(t, err, services.ErrInvalidSocialLink, "raw=%q", raw)
	}
}
