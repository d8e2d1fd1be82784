package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/resumelane/resumelane/middleware"
	"github.com/resumelane/resumelane/models"
	"github.com/resumelane/resumelane/services/reviewer"
	"github.com/resumelane/resumelane/utils"
	"go.uber.org/zap"
)

// ReviewerService defines the reviewer page operations the handler needs
type ReviewerService interface {
	// Become creates a reviewer record for the caller and flips their role
	Become(ctx context.Context, identityID uuid.UUID, input reviewer.BecomeInput) (*models.Reviewer, error)

	// GetByID retrieves a reviewer page by row id
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reviewer, error)

	// GetBySlug retrieves a reviewer page by slug
	GetBySlug(ctx context.Context, slug string) (*models.Reviewer, error)

	// GetByIdentity retrieves the caller's own reviewer record
	GetByIdentity(ctx context.Context, identityID uuid.UUID) (*models.Reviewer, error)

	// List retrieves the reviewer directory
	List(ctx context.Context, expertise string, limit, offset int) ([]*models.Reviewer, error)

	// UpdatePage edits the caller's own reviewer page
	UpdatePage(ctx context.Context, identityID uuid.UUID, input reviewer.UpdatePageInput) (*models.Reviewer, error)

	// AddExperience appends a work-history entry
	AddExperience(ctx context.Context, identityID uuid.UUID, input reviewer.ExperienceInput) (*models.Experience, error)

	// ListExperiences retrieves a reviewer's work history
	ListExperiences(ctx context.Context, reviewerID uuid.UUID) ([]*models.Experience, error)

	// UpdateExperience replaces one of the caller's entries
	UpdateExperience(ctx context.Context, identityID, experienceID uuid.UUID, input reviewer.ExperienceInput) (*models.Experience, error)

	// DeleteExperience removes one of the caller's entries
	DeleteExperience(ctx context.Context, identityID, experienceID uuid.UUID) error
}

// ReviewerHandler handles reviewer page HTTP requests
type ReviewerHandler struct {
	service ReviewerService
	logger  *zap.Logger
}

// NewReviewerHandler creates a new ReviewerHandler
func NewReviewerHandler(service ReviewerService, logger *zap.Logger) *ReviewerHandler {
	return &ReviewerHandler{
		service: service,
		logger:  logger,
	}
}

// HandleBecome handles POST /api/v1/reviewers
func (h *ReviewerHandler) HandleBecome(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	var input reviewer.BecomeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	rec, err := h.service.Become(r.Context(), sess.Identity.ID, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("reviewer account created via API",
		zap.String("identity_id", sess.Identity.ID.String()),
		zap.String("slug", rec.Slug))
	_ = utils.WriteCreated(w, rec)
}

// HandleList handles GET /api/v1/reviewers. Public directory listing.
func (h *ReviewerHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	expertise := r.URL.Query().Get("expertise")
	limit, offset := paginationParams(r)

	recs, err := h.service.List(r.Context(), expertise, limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, recs)
}

// HandleGetBySlug handles GET /api/v1/reviewers/slug/{slug}
func (h *ReviewerHandler) HandleGetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		_ = utils.WriteBadRequest(w, "Missing slug", nil)
		return
	}

	rec, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, rec)
}

// HandleGetByID handles GET /api/v1/reviewers/{id}
func (h *ReviewerHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid reviewer ID format", nil)
		return
	}

	rec, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, rec)
}

// HandleUpdatePage handles PATCH /api/v1/reviewers/me
func (h *ReviewerHandler) HandleUpdatePage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	var input reviewer.UpdatePageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	rec, err := h.service.UpdatePage(r.Context(), sess.Identity.ID, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, rec)
}

// HandleListExperiences handles GET /api/v1/experiences. Lists the caller's
// own work history.
func (h *ReviewerHandler) HandleListExperiences(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	rec, err := h.service.GetByIdentity(r.Context(), sess.Identity.ID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	exps, err := h.service.ListExperiences(r.Context(), rec.ID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, exps)
}

// HandleAddExperience handles POST /api/v1/experiences
func (h *ReviewerHandler) HandleAddExperience(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	var input reviewer.ExperienceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	exp, err := h.service.AddExperience(r.Context(), sess.Identity.ID, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, exp)
}

// HandleUpdateExperience handles PUT /api/v1/experiences/{id}
func (h *ReviewerHandler) HandleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid experience ID format", nil)
		return
	}

	var input reviewer.ExperienceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	exp, err := h.service.UpdateExperience(r.Context(), sess.Identity.ID, id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, exp)
}

// HandleDeleteExperience handles DELETE /api/v1/experiences/{id}
func (h *ReviewerHandler) HandleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid experience ID format", nil)
		return
	}

	if err := h.service.DeleteExperience(r.Context(), sess.Identity.ID, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	utils.WriteNoContent(w)
}
