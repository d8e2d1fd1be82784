package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/resumelane/resumelane/middleware"
	"github.com/resumelane/resumelane/models"
	"github.com/resumelane/resumelane/services/profile"
	"github.com/resumelane/resumelane/utils"
	"go.uber.org/zap"
)

// ProfileService defines the profile operations the handler needs
type ProfileService interface {
	// GetOwn retrieves the caller's profile
	GetOwn(ctx context.Context, identityID uuid.UUID) (*models.Profile, error)

	// UpdateOwn applies onboarding fields to the caller's profile
	UpdateOwn(ctx context.Context, identityID uuid.UUID, input profile.UpdateInput) (*models.Profile, error)
}

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	service ProfileService
	logger  *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger,
	}
}

// HandleGetProfile handles GET /api/v1/profile
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	p, err := h.service.GetOwn(r.Context(), sess.Identity.ID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, p)
}

// HandleUpdateProfile handles PATCH /api/v1/profile
func (h *ProfileHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSessionFromContext(r.Context())
	if sess == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	var input profile.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	p, err := h.service.UpdateOwn(r.Context(), sess.Identity.ID, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("profile updated via API",
		zap.String("identity_id", sess.Identity.ID.String()))
	_ = utils.WriteOK(w, p)
}
