package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/resumelane/resumelane/authz"
	"github.com/resumelane/resumelane/middleware"
	"github.com/resumelane/resumelane/models"
	"github.com/resumelane/resumelane/services"
	"github.com/resumelane/resumelane/services/profile"
	"github.com/resumelane/resumelane/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockProfileService is a mock implementation of ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetOwn(ctx context.Context, identityID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, identityID)
	if p := args.Get(0); p != nil {
		return p.(*models.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileService) UpdateOwn(ctx context.Context, identityID uuid.UUID, input profile.UpdateInput) (*models.Profile, error) {
	args := m.Called(ctx, identityID, input)
	if p := args.Get(0); p != nil {
		return p.(*models.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

func serveProfile(h *ProfileHandler, method string, body []byte, sess *session.Session) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/profile", bytes.NewReader(body))
	if sess != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), sess))
	}
	w := httptest.NewRecorder()
	switch method {
	case http.MethodPatch:
		h.HandleUpdateProfile(w, req)
	default:
		h.HandleGetProfile(w, req)
	}
	return w
}

func TestHandleGetProfile(t *testing.T) {
	t.Run("returns the caller's profile", func(t *testing.T) {
		svc := new(MockProfileService)
		h := NewProfileHandler(svc, zap.NewNop())
		sess := sessionFor(authz.RoleUser)

		svc.On("GetOwn", mock.Anything, sess.Identity.ID).
			Return(&models.Profile{IdentityID: sess.Identity.ID, Role: "user"}, nil)

		w := serveProfile(h, http.MethodGet, nil, sess)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing profile maps to 404", func(t *testing.T) {
		svc := new(MockProfileService)
		h := NewProfileHandler(svc, zap.NewNop())
		sess := sessionFor(authz.RoleUser)

		svc.On("GetOwn", mock.Anything, sess.Identity.ID).
			Return(nil, services.ErrProfileNotFound)

		w := serveProfile(h, http.MethodGet, nil, sess)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("no session is unauthorized", func(t *testing.T) {
		h := NewProfileHandler(new(MockProfileService), zap.NewNop())
		w := serveProfile(h, http.MethodGet, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandleUpdateProfile(t *testing.T) {
	t.Run("applies onboarding fields", func(t *testing.T) {
		svc := new(MockProfileService)
		h := NewProfileHandler(svc, zap.NewNop())
		sess := sessionFor(authz.RoleUser)

		svc.On("UpdateOwn", mock.Anything, sess.Identity.ID, mock.MatchedBy(func(in profile.UpdateInput) bool {
			return in.DesiredJobTitle != nil && *in.DesiredJobTitle == "SRE" &&
				in.Onboarded != nil && *in.Onboarded
		})).Return(&models.Profile{IdentityID: sess.Identity.ID, Onboarded: true}, nil)

		body := []byte(`{"desired_job_title":"SRE","onboarded":true}`)
		w := serveProfile(h, http.MethodPatch, body, sess)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		h := NewProfileHandler(new(MockProfileService), zap.NewNop())
		w := serveProfile(h, http.MethodPatch, []byte(`{`), sessionFor(authz.RoleUser))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
