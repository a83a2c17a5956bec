package service

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/anaeze/critica/config"
	"github.com/anaeze/critica/data"
	"github.com/anaeze/critica/data/dto"
	"github.com/anaeze/critica/internal/jsonlog"
	"github.com/anaeze/critica/repository"
)

// stubRepo implements the repository methods the tests in this package touch.
// Anything else falls through to the embedded nil interface and panics, which
// flags an unexpected call.
type stubRepo struct {
	repository.Repository
	title           *data.Title
	review          *data.Review
	reviewExists    bool
	createReviewErr error
}

func (r *stubRepo) GetTitle(titleID int64) (*data.Title, error) {
	if r.title == nil || r.title.ID != titleID {
		return nil, repository.ErrRecordNotFound
	}
	return r.title, nil
}

func (r *stubRepo) ReviewExistsForUser(titleID, authorID int64) (bool, error) {
	return r.reviewExists, nil
}

func (r *stubRepo) CreateReview(review *data.Review) error {
	if r.createReviewErr != nil {
		return r.createReviewErr
	}
	review.ID = 1
	return nil
}

func (r *stubRepo) GetReview(titleID, reviewID int64) (*data.Review, error) {
	if r.review == nil || r.review.ID != reviewID || r.review.TitleID != titleID {
		return nil, repository.ErrRecordNotFound
	}
	return r.review, nil
}

func newTestService(repo repository.Repository) *service {
	var wg sync.WaitGroup
	return New(config.Config{}, &wg, jsonlog.New(io.Discard, jsonlog.LevelOff), repo)
}

func TestCreateReview(t *testing.T) {
	author := &data.User{ID: 7, Username: "margarita", Role: data.RoleUser}
	title := &data.Title{ID: 2, Name: "Alien", Year: 1979}
	body := dto.CreateReviewRequestBody{Text: "a fine film", Score: 8}

	t.Run("stores the review with the author's identity", func(t *testing.T) {
		s := newTestService(&stubRepo{title: title})
		review, err := s.CreateReview(2, author, body)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if review.AuthorID != author.ID || review.Author != author.Username {
			t.Errorf("review carries author %d %q, want %d %q", review.AuthorID, review.Author, author.ID, author.Username)
		}
	})

	t.Run("unknown title is a not-found", func(t *testing.T) {
		s := newTestService(&stubRepo{})
		_, err := s.CreateReview(2, author, body)
		if !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("got %v, want ErrRecordNotFound", err)
		}
	})

	t.Run("second review on the same title is a validation error", func(t *testing.T) {
		s := newTestService(&stubRepo{title: title, reviewExists: true})
		_, err := s.CreateReview(2, author, body)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("got %v, want a ValidationError", err)
		}
		if _, ok := vErr.Fields["title"]; !ok {
			t.Errorf("expected an error on the title field; got %v", vErr.Fields)
		}
	})

	t.Run("raced duplicate insert maps to the same validation error", func(t *testing.T) {
		// The pre-check misses the concurrent insert; the unique index does
		// not, and the constraint violation must surface identically.
		s := newTestService(&stubRepo{title: title, createReviewErr: repository.ErrDuplicateRecord})
		_, err := s.CreateReview(2, author, body)
		if !errors.Is(err, ErrFailedValidation) {
			t.Fatalf("got %v, want ErrFailedValidation", err)
		}
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("got %v, want a ValidationError", err)
		}
		if _, ok := vErr.Fields["title"]; !ok {
			t.Errorf("expected an error on the title field; got %v", vErr.Fields)
		}
	})

	t.Run("out-of-range score is a validation error", func(t *testing.T) {
		s := newTestService(&stubRepo{title: title})
		_, err := s.CreateReview(2, author, dto.CreateReviewRequestBody{Text: "meh", Score: 11})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("got %v, want a ValidationError", err)
		}
		if _, ok := vErr.Fields["score"]; !ok {
			t.Errorf("expected an error on the score field; got %v", vErr.Fields)
		}
	})
}
