package reviewer

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/resumelane/resumelane/repositories"
	"github.com/resumelane/resumelane/services"
)

// maxSlugAttempts bounds the collision suffix search. Past this the caller
// gets a conflict instead of an unbounded scan.
const maxSlugAttempts = 100

// Slugify lowercases name and reduces it to [a-z0-9-]: runs of anything else
// collapse to a single dash, leading and trailing dashes are trimmed.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLower(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// assignSlug finds the first free slug for base: base itself, then base-1,
// base-2 and so on. Returns ErrSlugExhausted after maxSlugAttempts tries.
func assignSlug(ctx context.Context, repo repositories.ReviewerRepository, base string) (string, error) {
	if base == "" {
		return "", services.ErrInvalidSlug
	}

	candidate := base
	for i := 0; i < maxSlugAttempts; i++ {
		if i > 0 {
			candidate = base + "-" + strconv.Itoa(i)
		}
		taken, err := repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", services.WrapDatabase("failed to check slug", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", services.ErrSlugExhausted
}
