// Package session computes the per-request Session: identity, effective
// role, permission list and onboarding state. The resolver is the single
// source of role decisions; both the page-route guard and the API
// middleware call it, so the precedence chain cannot drift between
// enforcement points.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/resumelane/resumelane/authz"
	"github.com/resumelane/resumelane/config"
	"github.com/resumelane/resumelane/models"
	"github.com/resumelane/resumelane/repositories"
	"go.uber.org/zap"
)

// Identity is the provider-owned account as seen in validated token claims
type Identity struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// Session is the resolved (identity + role + permissions) bundle.
// It is recomputed from scratch on every call; nothing is cached.
type Session struct {
	Identity    Identity
	Role        authz.Role
	Onboarded   bool
	Permissions []string
}

// HasPermission is a convenience membership test over the session's permission list
func (s *Session) HasPermission(perm string) bool {
	for _, p := range s.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Resolver resolves sessions from identity claims plus stored state
type Resolver struct {
	profiles  repositories.ProfileRepository
	reviewers repositories.ReviewerRepository
	admin     config.AdminConfig
	logger    *zap.Logger
}

// NewResolver creates a new session resolver
func NewResolver(
	profiles repositories.ProfileRepository,
	reviewers repositories.ReviewerRepository,
	admin config.AdminConfig,
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		profiles:  profiles,
		reviewers: reviewers,
		admin:     admin,
		logger:    logger,
	}
}

// Resolve produces the Session for an authenticated identity, or nil when
// there is none. All data-layer failures resolve to nil (fail closed); the
// error is logged, never surfaced as an authenticated state.
//
// A missing profile is created with defaults (role=user, onboarded=false)
// before resolution continues, so the first session check onboards the row.
func (r *Resolver) Resolve(ctx context.Context, identity *Identity) *Session {
	if identity == nil || identity.ID == uuid.Nil {
		return nil
	}

	profile, err := r.profiles.GetByIdentityID(ctx, identity.ID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			r.logger.Warn("profile fetch failed, failing closed",
				zap.String("identity_id", identity.ID.String()),
				zap.Error(err))
			return nil
		}
		profile = models.NewProfile(identity.ID, identity.Email, identity.Name)
		if err := r.profiles.Create(ctx, profile); err != nil {
			r.logger.Warn("profile auto-create failed, failing closed",
				zap.String("identity_id", identity.ID.String()),
				zap.Error(err))
			return nil
		}
		r.logger.Info("profile created on first session check",
			zap.String("identity_id", identity.ID.String()))
	}

	role, ok := r.resolveRole(ctx, identity, profile)
	if !ok {
		return nil
	}

	return &Session{
		Identity:    *identity,
		Role:        role,
		Onboarded:   profile.Onboarded,
		Permissions: authz.Permissions(role),
	}
}

// resolveRole applies the documented precedence chain:
//
//  1. admin allow-list email           -> admin
//  2. explicit, valid profile role     -> that role
//  3. reviewer record exists           -> reviewer
//  4. default                          -> user
//
// Step 3 runs only when the stored role is absent or invalid; it exists for
// reviewer rows that predate the role column. The second return value is
// false when a data-layer error forces a fail-closed resolution.
func (r *Resolver) resolveRole(ctx context.Context, identity *Identity, profile *models.Profile) (authz.Role, bool) {
	if r.admin.IsAllowedEmail(identity.Email) {
		return authz.RoleAdmin, true
	}

	if stored := authz.Role(profile.Role); stored.Valid() {
		return stored, true
	}

	isReviewer, err := r.reviewers.ExistsByIdentityID(ctx, identity.ID)
	if err != nil {
		r.logger.Warn("reviewer inference failed, failing closed",
			zap.String("identity_id", identity.ID.String()),
			zap.Error(err))
		return authz.RoleUser, false
	}
	if isReviewer {
		return authz.RoleReviewer, true
	}

	return authz.RoleUser, true
}
