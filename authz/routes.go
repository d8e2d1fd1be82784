package authz

import "strings"

// RouteRule is a (path pattern, allowed roles, auth requirement) tuple.
// Patterns are literal paths whose "[param]" segments match exactly one
// non-slash segment.
type RouteRule struct {
	Pattern      string
	Roles        []Role
	RequiresAuth bool
}

// Denial reasons surfaced by CheckRouteAccess
const (
	ReasonRouteNotFound           = "route not found"
	ReasonInsufficientPermissions = "insufficient permissions"
)

// AccessDecision is the result of a route access check
type AccessDecision struct {
	Allowed bool
	Reason  string // set only when denied
	Rule    *RouteRule
}

// routeRules is the ordered route-access table. Matching is first-match,
// not best-match: when two patterns both match a path the earlier entry
// wins, so more specific patterns must be declared before broader ones.
var routeRules = []RouteRule{
	// Public pages
	{Pattern: "/", RequiresAuth: false},
	{Pattern: "/login", RequiresAuth: false},
	{Pattern: "/signup", RequiresAuth: false},
	{Pattern: "/about", RequiresAuth: false},
	{Pattern: "/reviewers", RequiresAuth: false},
	{Pattern: "/reviewers/[slug]", RequiresAuth: false},
	{Pattern: "/r/[slug]", RequiresAuth: false},

	// User pages
	{Pattern: "/dashboard", Roles: []Role{RoleUser, RoleReviewer, RoleAdmin}, RequiresAuth: true},
	{Pattern: "/onboarding", Roles: []Role{RoleUser, RoleReviewer, RoleAdmin}, RequiresAuth: true},
	{Pattern: "/resumes/[id]", Roles: []Role{RoleUser, RoleReviewer, RoleAdmin}, RequiresAuth: true},
	{Pattern: "/settings", Roles: []Role{RoleUser, RoleReviewer, RoleAdmin}, RequiresAuth: true},

	// Reviewer pages
	{Pattern: "/creator", Roles: []Role{RoleReviewer, RoleAdmin}, RequiresAuth: true},
	{Pattern: "/creator/queue", Roles: []Role{RoleReviewer, RoleAdmin}, RequiresAuth: true},
	{Pattern: "/creator/reviews/[id]", Roles: []Role{RoleReviewer, RoleAdmin}, RequiresAuth: true},
	{Pattern: "/creator/profile", Roles: []Role{RoleReviewer, RoleAdmin}, RequiresAuth: true},

	// Admin pages
	{Pattern: "/admin", Roles: []Role{RoleAdmin}, RequiresAuth: true},
	{Pattern: "/admin/resumes", Roles: []Role{RoleAdmin}, RequiresAuth: true},
	{Pattern: "/admin/resumes/[id]", Roles: []Role{RoleAdmin}, RequiresAuth: true},
	{Pattern: "/admin/reviewers", Roles: []Role{RoleAdmin}, RequiresAuth: true},
}

// RouteRules returns a copy of the ordered route-access table
func RouteRules() []RouteRule {
	out := make([]RouteRule, len(routeRules))
	copy(out, routeRules)
	return out
}

// CheckRouteAccess finds the first rule matching path and decides access for
// role. No matching rule means the route is unknown and access is denied.
func CheckRouteAccess(role Role, path string) AccessDecision {
	for i := range routeRules {
		rule := &routeRules[i]
		if !MatchPattern(rule.Pattern, path) {
			continue
		}
		if !rule.RequiresAuth {
			return AccessDecision{Allowed: true, Rule: rule}
		}
		for _, allowed := range rule.Roles {
			if allowed == role {
				return AccessDecision{Allowed: true, Rule: rule}
			}
		}
		return AccessDecision{Allowed: false, Reason: ReasonInsufficientPermissions, Rule: rule}
	}
	return AccessDecision{Allowed: false, Reason: ReasonRouteNotFound}
}

// MatchPattern reports whether path matches pattern. A "[param]" segment
// matches any single non-empty segment without slashes; every other segment
// must match exactly. Trailing slashes are not normalized.
func MatchPattern(pattern, path string) bool {
	if pattern == path {
		return true
	}
	if !strings.Contains(pattern, "[") {
		return false
	}
	patSegs := strings.Split(pattern, "/")
	pathSegs := strings.Split(path, "/")
	if len(patSegs) != len(pathSegs) {
		return false
	}
	for i, seg := range patSegs {
		if strings.HasPrefix(seg, "[") && strings.HasSuffix(seg, "]") {
			if pathSegs[i] == "" {
				return false
			}
			continue
		}
		if seg != pathSegs[i] {
			return false
		}
	}
	return true
}
