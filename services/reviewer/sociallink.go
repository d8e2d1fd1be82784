package reviewer

import (
	"net/url"
	"strings"

	"github.com/resumelane/resumelane/services"
)

// NormalizeSocialLink canonicalizes a social profile URL so casing, scheme,
// a www. prefix and a trailing slash never make the same profile look like
// two different ones. The normalized form is host + path, both lowercased:
//
//	https://www.LinkedIn.com/in/Jane/  ->  linkedin.com/in/jane
//	http://linkedin.com/in/jane        ->  linkedin.com/in/jane
//
// Query strings and fragments are dropped.
func NormalizeSocialLink(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", services.ErrInvalidSocialLink
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", services.ErrInvalidSocialLink
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", services.ErrInvalidSocialLink
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" || !strings.Contains(host, ".") {
		return "", services.ErrInvalidSocialLink
	}

	path := strings.ToLower(parsed.EscapedPath())
	path = strings.TrimRight(path, "/")

	return host + path, nil
}
