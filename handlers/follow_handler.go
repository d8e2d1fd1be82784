package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/resumelane/resumelane/middleware"
	"github.com/resumelane/resumelane/utils"
	"go.uber.org/zap"
)

// FollowService defines the follow operations the handler needs
type FollowService interface {
	// Follow records a follow pair, idempotently
	Follow(ctx context.Context, followerID, reviewerIdentityID uuid.UUID) error

	// Unfollow removes a follow pair, idempotently
	Unfollow(ctx context.Context, followerID, reviewerIdentityID uuid.UUID) error

	// IsFollowing reports the current follow state for a pair
	IsFollowing(ctx context.Context, followerID, reviewerIdentityID uuid.UUID) (bool, error)

	// FollowerCount returns the number of identities following the reviewer
	// with the given record id
	FollowerCount(ctx context.Context, reviewerID uuid.UUID) (int, error)
}

// FollowStateResponse is the body of GET /follows/{reviewerID}
type FollowStateResponse struct {
	Following bool `json:"following"`
}

// FollowerCountResponse is the body of GET /reviewers/{id}/followers/count
type FollowerCountResponse struct {
	Count int `json:"count"`
}

// FollowHandler handles follow HTTP requests
type FollowHandler struct {
	service FollowService
	logger  *zap.Logger
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(service FollowService, logger *zap.Logger) *FollowHandler {
	return &FollowHandler{
		service: service,
		logger:  logger,
	}
}

// HandleFollow handles PUT /api/v1/follows/{reviewerID}
func (h *FollowHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	reviewerID, err := uuid.Parse(chi.URLParam(r, "reviewerID"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid reviewer ID format", nil)
		return
	}

	if err := h.service.Follow(r.Context(), sess.Identity.ID, reviewerID); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

// HandleUnfollow handles DELETE /api/v1/follows/{reviewerID}
func (h *FollowHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	reviewerID, err := uuid.Parse(chi.URLParam(r, "reviewerID"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid reviewer ID format", nil)
		return
	}

	if err := h.service.Unfollow(r.Context(), sess.Identity.ID, reviewerID); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}

// HandleFollowState handles GET /api/v1/follows/{reviewerID}
func (h *FollowHandler) HandleFollowState(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	reviewerID, err := uuid.Parse(chi.URLParam(r, "reviewerID"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid reviewer ID format", nil)
		return
	}

	following, err := h.service.IsFollowing(r.Context(), sess.Identity.ID, reviewerID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, FollowStateResponse{Following: following})
}

// HandleFollowerCount handles GET /api/v1/reviewers/{id}/followers/count
func (h *FollowHandler) HandleFollowerCount(w http.ResponseWriter, r *http.Request) {
	reviewerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid reviewer ID format", nil)
		return
	}

	count, err := h.service.FollowerCount(r.Context(), reviewerID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, FollowerCountResponse{Count: count})
}
