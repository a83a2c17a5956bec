package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/anaeze/critica/config"
	"github.com/anaeze/critica/data"
	"github.com/anaeze/critica/internal/jsonlog"
	"github.com/anaeze/critica/repository"
	"github.com/anaeze/critica/service"
	"github.com/jellydator/ttlcache/v3"
	"github.com/julienschmidt/httprouter"
)

// stubRepo serves the single review the ownership middleware looks up.
// Anything else falls through to the embedded nil interface and panics.
type stubRepo struct {
	repository.Repository
	review *data.Review
}

func (r *stubRepo) GetReview(titleID, reviewID int64) (*data.Review, error) {
	if r.review == nil || r.review.ID != reviewID || r.review.TitleID != titleID {
		return nil, repository.ErrRecordNotFound
	}
	return r.review, nil
}

func newTestHandler(repo repository.Repository) *Handler {
	logger := jsonlog.New(io.Discard, jsonlog.LevelOff)
	var wg sync.WaitGroup
	cache := ttlcache.New(ttlcache.WithTTL[string, int64](time.Minute))
	return New(config.Config{}, logger, cache, service.New(config.Config{}, &wg, logger, repo))
}

// newReviewRequest builds a request carrying the url parameters the router
// would have extracted, with the given user in the context.
func newReviewRequest(h *Handler, user *data.User, titleID, reviewID int64) *http.Request {
	target := "/v1/titles/" + strconv.FormatInt(titleID, 10) + "/reviews/" + strconv.FormatInt(reviewID, 10)
	r := httptest.NewRequest(http.MethodDelete, target, nil)
	params := httprouter.Params{
		{Key: "titleId", Value: strconv.FormatInt(titleID, 10)},
		{Key: "reviewId", Value: strconv.FormatInt(reviewID, 10)},
	}
	r = r.WithContext(context.WithValue(r.Context(), httprouter.ParamsKey, params))
	return h.contextSetUser(r, user)
}

func TestRequireReviewModifyPermission(t *testing.T) {
	review := &data.Review{ID: 5, TitleID: 2, AuthorID: 7, Author: "margarita"}
	next := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	tests := []struct {
		name       string
		user       *data.User
		wantStatus int
	}{
		{"author may modify their own review", &data.User{ID: 7, Role: data.RoleUser}, http.StatusOK},
		{"moderator may modify another user's review", &data.User{ID: 99, Role: data.RoleModerator}, http.StatusOK},
		{"admin may modify another user's review", &data.User{ID: 100, Role: data.RoleAdmin}, http.StatusOK},
		{"plain user may not modify another user's review", &data.User{ID: 8, Role: data.RoleUser}, http.StatusForbidden},
		{"anonymous user must authenticate", data.AnonymousUser, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&stubRepo{review: review})
			rr := httptest.NewRecorder()
			h.requireReviewModifyPermission(next).ServeHTTP(rr, newReviewRequest(h, tt.user, 2, 5))
			if rr.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}

	t.Run("unknown review is a not-found", func(t *testing.T) {
		h := newTestHandler(&stubRepo{})
		rr := httptest.NewRecorder()
		h.requireReviewModifyPermission(next).ServeHTTP(rr, newReviewRequest(h, &data.User{ID: 7, Role: data.RoleUser}, 2, 5))
		if rr.Code != http.StatusNotFound {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusNotFound)
		}
	})

	t.Run("cached author id still blocks a different user", func(t *testing.T) {
		h := newTestHandler(&stubRepo{review: review})
		rr := httptest.NewRecorder()
		h.requireReviewModifyPermission(next).ServeHTTP(rr, newReviewRequest(h, &data.User{ID: 7, Role: data.RoleUser}, 2, 5))
		if rr.Code != http.StatusOK {
			t.Fatalf("warm-up request: got status %d, want %d", rr.Code, http.StatusOK)
		}
		rr = httptest.NewRecorder()
		h.requireReviewModifyPermission(next).ServeHTTP(rr, newReviewRequest(h, &data.User{ID: 8, Role: data.RoleUser}, 2, 5))
		if rr.Code != http.StatusForbidden {
			t.Errorf("cached request: got status %d, want %d", rr.Code, http.StatusForbidden)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	next := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	tests := []struct {
		name       string
		user       *data.User
		wantStatus int
	}{
		{"admin passes", &data.User{ID: 1, Role: data.RoleAdmin}, http.StatusOK},
		{"moderator is refused", &data.User{ID: 2, Role: data.RoleModerator}, http.StatusForbidden},
		{"plain user is refused", &data.User{ID: 3, Role: data.RoleUser}, http.StatusForbidden},
		{"anonymous user must authenticate", data.AnonymousUser, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&stubRepo{})
			r := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
			r = h.contextSetUser(r, tt.user)
			rr := httptest.NewRecorder()
			h.requireAdmin(next).ServeHTTP(rr, r)
			if rr.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}
