package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/resumelane/resumelane/authz"
	"github.com/resumelane/resumelane/middleware"
	"github.com/resumelane/resumelane/models"
	"github.com/resumelane/resumelane/services/resume"
	"github.com/resumelane/resumelane/utils"
	"go.uber.org/zap"
)

// ResumeService defines the resume pipeline operations the handler needs
type ResumeService interface {
	// Upload registers an uploaded resume in the pending state
	Upload(ctx context.Context, identityID uuid.UUID, input resume.UploadInput) (*models.Resume, error)

	// Get retrieves a resume respecting ownership
	Get(ctx context.Context, callerID uuid.UUID, canModerate bool, id uuid.UUID) (*models.Resume, error)

	// ListOwn retrieves the caller's resumes
	ListOwn(ctx context.Context, identityID uuid.UUID) ([]*models.Resume, error)

	// List retrieves resumes across all owners with an optional status filter
	List(ctx context.Context, status models.ResumeStatus, limit, offset int) ([]*models.Resume, error)

	// Queue retrieves the pending resumes waiting for a reviewer
	Queue(ctx context.Context, limit, offset int) ([]*models.Resume, error)

	// Claim moves a pending resume into review
	Claim(ctx context.Context, id uuid.UUID) (*models.Resume, error)

	// Retitle renames a resume, owner-only
	Retitle(ctx context.Context, callerID, id uuid.UUID, title string) (*models.Resume, error)

	// Moderate applies an admin status override and/or free-text note
	Moderate(ctx context.Context, id uuid.UUID, input resume.ModerateInput) (*models.Resume, error)
}

// UpdateResumeRequest is the PATCH /resumes/{id} payload. Title is the
// owner's field; status and admin_note require moderation rights.
type UpdateResumeRequest struct {
	Title     *string              `json:"title,omitempty"`
	Status    *models.ResumeStatus `json:"status,omitempty"`
	AdminNote *string              `json:"admin_note,omitempty"`
}

// ResumeHandler handles resume HTTP requests
type ResumeHandler struct {
	service ResumeService
	logger  *zap.Logger
}

// NewResumeHandler creates a new ResumeHandler
func NewResumeHandler(service ResumeService, logger *zap.Logger) *ResumeHandler {
	return &ResumeHandler{
		service: service,
		logger:  logger,
	}
}

// HandleUpload handles POST /api/v1/resumes
func (h *ResumeHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	var input resume.UploadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	res, err := h.service.Upload(r.Context(), sess.Identity.ID, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, res)
}

// HandleList handles GET /api/v1/resumes. Regular callers see their own
// uploads; moderators see everyone's, with an optional status filter.
func (h *ResumeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	if !sess.HasPermission(authz.PermModerateResumes) {
		recs, err := h.service.ListOwn(r.Context(), sess.Identity.ID)
		if err != nil {
			HandleServiceError(w, err, h.logger)
			return
		}
		_ = utils.WriteOK(w, recs)
		return
	}

	status := models.ResumeStatus(r.URL.Query().Get("status"))
	limit, offset := paginationParams(r)

	recs, err := h.service.List(r.Context(), status, limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, recs)
}

// HandleGet handles GET /api/v1/resumes/{id}
func (h *ResumeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid resume ID format", nil)
		return
	}

	canModerate := sess.HasPermission(authz.PermModerateResumes) ||
		sess.HasPermission(authz.PermReviewResumes)
	res, err := h.service.Get(r.Context(), sess.Identity.ID, canModerate, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, res)
}

// HandleUpdate handles PATCH /api/v1/resumes/{id}
func (h *ResumeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid resume ID format", nil)
		return
	}

	var req UpdateResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if req.Status != nil || req.AdminNote != nil {
		if !sess.HasPermission(authz.PermModerateResumes) {
			_ = utils.WriteForbidden(w, "Moderation rights required")
			return
		}
		res, err := h.service.Moderate(r.Context(), id, resume.ModerateInput{
			Status:    req.Status,
			AdminNote: req.AdminNote,
		})
		if err != nil {
			HandleServiceError(w, err, h.logger)
			return
		}
		h.logger.Info("resume moderated via API",
			zap.String("resume_id", id.String()),
			zap.String("identity_id", sess.Identity.ID.String()))
		_ = utils.WriteOK(w, res)
		return
	}

	if req.Title == nil {
		_ = utils.WriteBadRequest(w, "No updatable fields in request", nil)
		return
	}

	res, err := h.service.Retitle(r.Context(), sess.Identity.ID, id, *req.Title)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, res)
}

// HandleQueue handles GET /api/v1/resumes/queue
func (h *ResumeHandler) HandleQueue(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	recs, err := h.service.Queue(r.Context(), limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, recs)
}

// HandleClaim handles POST /api/v1/resumes/{id}/claim
func (h *ResumeHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid resume ID format", nil)
		return
	}

	res, err := h.service.Claim(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("resume claimed via API",
		zap.String("resume_id", id.String()),
		zap.String("identity_id", sess.Identity.ID.String()))
	_ = utils.WriteOK(w, res)
}

// paginationParams reads limit/offset query params; the services clamp them
func paginationParams(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
