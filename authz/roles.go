// Package authz holds the static role model: role definitions, the
// role-to-permission map, route access rules and default landing paths.
// Nothing in here touches the database; it is configuration as code.
package authz

// Role is one of exactly three values. Anything else parses to RoleUser.
type Role string

const (
	RoleUser     Role = "user"
	RoleReviewer Role = "reviewer"
	RoleAdmin    Role = "admin"
)

// ParseRole converts a stored role string to a Role.
// Unknown or empty values map to RoleUser (least privilege).
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleReviewer:
		return RoleReviewer
	default:
		return RoleUser
	}
}

// Valid reports whether r is one of the three defined roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleReviewer, RoleAdmin:
		return true
	}
	return false
}

// Permission capability strings. The set per role is fixed; there is no
// per-user permission customization anywhere in the system.
const (
	PermUploadResume      = "upload_resume"
	PermViewOwnResumes    = "view_own_resumes"
	PermFollowReviewers   = "follow_reviewers"
	PermManageProfile     = "manage_profile"
	PermReviewResumes     = "review_resumes"
	PermManageReviewerPage = "manage_reviewer_page"
	PermManageExperiences = "manage_experiences"
	PermModerateResumes   = "moderate_resumes"
	PermManageSystem      = "manage_system"
)

// rolePermissions is the static role -> capability map.
// Reviewers keep every user capability; admins keep both plus moderation.
var rolePermissions = map[Role][]string{
	RoleUser: {
		PermUploadResume,
		PermViewOwnResumes,
		PermFollowReviewers,
		PermManageProfile,
	},
	RoleReviewer: {
		PermUploadResume,
		PermViewOwnResumes,
		PermFollowReviewers,
		PermManageProfile,
		PermReviewResumes,
		PermManageReviewerPage,
		PermManageExperiences,
	},
	RoleAdmin: {
		PermUploadResume,
		PermViewOwnResumes,
		PermFollowReviewers,
		PermManageProfile,
		PermReviewResumes,
		PermManageReviewerPage,
		PermManageExperiences,
		PermModerateResumes,
		PermManageSystem,
	},
}

// Permissions returns the full fixed permission list for a role.
// The returned slice is a copy; callers may not mutate the static map.
func Permissions(role Role) []string {
	perms := rolePermissions[ParseRole(string(role))]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// HasPermission is a membership test against the static map. No side effects.
func HasPermission(role Role, permission string) bool {
	for _, p := range rolePermissions[ParseRole(string(role))] {
		if p == permission {
			return true
		}
	}
	return false
}

// Default landing paths per role
const (
	AdminHome    = "/admin"
	ReviewerHome = "/creator"
	UserHome     = "/dashboard"
)

// DefaultRedirectPath returns the landing path for a role.
// Total function: unknown roles fall back to the user home.
func DefaultRedirectPath(role Role) string {
	switch role {
	case RoleAdmin:
		return AdminHome
	case RoleReviewer:
		return ReviewerHome
	default:
		return UserHome
	}
}
