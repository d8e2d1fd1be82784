package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/resumelane/resumelane/middleware"
	"github.com/resumelane/resumelane/models"
	"github.com/resumelane/resumelane/services/review"
	"github.com/resumelane/resumelane/utils"
	"go.uber.org/zap"
)

// ReviewService defines the review operations the handler needs
type ReviewService interface {
	// Submit records a scored review and closes out the resume
	Submit(ctx context.Context, reviewerIdentityID uuid.UUID, input review.SubmitInput) (*models.Review, error)

	// ListByResume retrieves all reviews of a resume
	ListByResume(ctx context.Context, resumeID uuid.UUID) ([]*models.Review, error)

	// ListByReviewer retrieves all reviews written by a reviewer
	ListByReviewer(ctx context.Context, reviewerID uuid.UUID, limit, offset int) ([]*models.Review, error)
}

// ReviewHandler handles review HTTP requests
type ReviewHandler struct {
	service ReviewService
	logger  *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(service ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger,
	}
}

// HandleSubmit handles POST /api/v1/reviews
func (h *ReviewHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	var input review.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	rev, err := h.service.Submit(r.Context(), sess.Identity.ID, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("review submitted via API",
		zap.String("review_id", rev.ID.String()),
		zap.String("resume_id", rev.ResumeID.String()),
		zap.Int("score", rev.Score))
	_ = utils.WriteCreated(w, rev)
}

// HandleList handles GET /api/v1/reviews?resume_id= or ?reviewer_id=
func (h *ReviewHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if resumeIDStr := r.URL.Query().Get("resume_id"); resumeIDStr != "" {
		resumeID, err := uuid.Parse(resumeIDStr)
		if err != nil {
			_ = utils.WriteBadRequest(w, "Invalid resume_id format", nil)
			return
		}
		recs, err := h.service.ListByResume(r.Context(), resumeID)
		if err != nil {
			HandleServiceError(w, err, h.logger)
			return
		}
		_ = utils.WriteOK(w, recs)
		return
	}

	if reviewerIDStr := r.URL.Query().Get("reviewer_id"); reviewerIDStr != "" {
		reviewerID, err := uuid.Parse(reviewerIDStr)
		if err != nil {
			_ = utils.WriteBadRequest(w, "Invalid reviewer_id format", nil)
			return
		}
		limit, offset := paginationParams(r)
		recs, err := h.service.ListByReviewer(r.Context(), reviewerID, limit, offset)
		if err != nil {
			HandleServiceError(w, err, h.logger)
			return
		}
		_ = utils.WriteOK(w, recs)
		return
	}

	_ = utils.WriteBadRequest(w, "resume_id or reviewer_id query parameter required", nil)
}
