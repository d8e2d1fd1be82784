package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/resumelane/resumelane/authz"
	"github.com/resumelane/resumelane/middleware"
	"github.com/resumelane/resumelane/models"
	"github.com/resumelane/resumelane/services"
	"github.com/resumelane/resumelane/services/review"
	"github.com/resumelane/resumelane/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockReviewService is a mock implementation of ReviewService
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Submit(ctx context.Context, reviewerIdentityID uuid.UUID, input review.SubmitInput) (*models.Review, error) {
	args := m.Called(ctx, reviewerIdentityID, input)
	if rec := args.Get(0); rec != nil {
		return rec.(*models.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewService) ListByResume(ctx context.Context, resumeID uuid.UUID) ([]*models.Review, error) {
	args := m.Called(ctx, resumeID)
	if recs := args.Get(0); recs != nil {
		return recs.([]*models.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewService) ListByReviewer(ctx context.Context, reviewerID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	args := m.Called(ctx, reviewerID, limit, offset)
	if recs := args.Get(0); recs != nil {
		return recs.([]*models.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func serveReview(h *ReviewHandler, method, target string, body []byte, sess *session.Session) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Post("/reviews", h.HandleSubmit)
	r.Get("/reviews", h.HandleList)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if sess != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), sess))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleSubmit(t *testing.T) {
	resumeID := uuid.New()

	t.Run("submits a scored review", func(t *testing.T) {
		svc := new(MockReviewService)
		h := NewReviewHandler(svc, zap.NewNop())
		sess := sessionFor(authz.RoleReviewer)

		svc.On("Submit", mock.Anything, sess.Identity.ID, review.SubmitInput{
			ResumeID: resumeID,
			Score:    8,
			Feedback: "Clear and well structured.",
		}).Return(&models.Review{ID: uuid.New(), ResumeID: resumeID, Score: 8}, nil)

		body, _ := json.Marshal(map[string]interface{}{
			"resume_id": resumeID,
			"score":     8,
			"feedback":  "Clear and well structured.",
		})
		w := serveReview(h, http.MethodPost, "/reviews", body, sess)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("out-of-range score maps to 400", func(t *testing.T) {
		svc := new(MockReviewService)
		h := NewReviewHandler(svc, zap.NewNop())
		sess := sessionFor(authz.RoleReviewer)

		svc.On("Submit", mock.Anything, sess.Identity.ID, mock.Anything).
			Return(nil, services.ErrScoreOutOfRange)

		body, _ := json.Marshal(map[string]interface{}{
			"resume_id": resumeID, "score": 11, "feedback": "x",
		})
		w := serveReview(h, http.MethodPost, "/reviews", body, sess)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unclaimed resume maps to 409", func(t *testing.T) {
		svc := new(MockReviewService)
		h := NewReviewHandler(svc, zap.NewNop())
		sess := sessionFor(authz.RoleReviewer)

		svc.On("Submit", mock.Anything, sess.Identity.ID, mock.Anything).
			Return(nil, services.ErrResumeNotClaimable)

		body, _ := json.Marshal(map[string]interface{}{
			"resume_id": resumeID, "score": 5, "feedback": "x",
		})
		w := serveReview(h, http.MethodPost, "/reviews", body, sess)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandleListReviews(t *testing.T) {
	t.Run("lists by resume id", func(t *testing.T) {
		svc := new(MockReviewService)
		h := NewReviewHandler(svc, zap.NewNop())

		resumeID := uuid.New()
		svc.On("ListByResume", mock.Anything, resumeID).Return([]*models.Review{}, nil)

		w := serveReview(h, http.MethodGet, "/reviews?resume_id="+resumeID.String(), nil, sessionFor(authz.RoleUser))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("lists by reviewer id", func(t *testing.T) {
		svc := new(MockReviewService)
		h := NewReviewHandler(svc, zap.NewNop())

		reviewerID := uuid.New()
		svc.On("ListByReviewer", mock.Anything, reviewerID, 10, 0).Return([]*models.Review{}, nil)

		w := serveReview(h, http.MethodGet, "/reviews?reviewer_id="+reviewerID.String()+"&limit=10", nil, sessionFor(authz.RoleUser))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing filter is a bad request", func(t *testing.T) {
		h := NewReviewHandler(new(MockReviewService), zap.NewNop())
		w := serveReview(h, http.MethodGet, "/reviews", nil, sessionFor(authz.RoleUser))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
