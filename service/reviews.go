package service

import (
	"errors"

	"github.com/anaeze/critica/data"
	"github.com/anaeze/critica/data/dto"
	"github.com/anaeze/critica/internal/validator"
	"github.com/anaeze/critica/repository"
)

type reviews interface {
	ListReviews(titleID int64, qs dto.QsListReviews) ([]*data.Review, data.Metadata, error)
	CreateReview(titleID int64, author *data.User, body dto.CreateReviewRequestBody) (*data.Review, error)
	ShowReview(titleID, reviewID int64) (*data.Review, error)
	UpdateReview(titleID, reviewID int64, body dto.UpdateReviewRequestBody) (*data.Review, error)
	DeleteReview(titleID, reviewID int64) error
}

// ListReviews retrieves a paginated list of reviews for a title.
func (s *service) ListReviews(titleID int64, qs dto.QsListReviews) ([]*data.Review, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	_, err := s.repo.GetTitle(titleID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, data.Metadata{}, ErrRecordNotFound
		default:
			return nil, data.Metadata{}, err
		}
	}
	revs, metadata, err := s.repo.GetAllReviewsForTitle(titleID, qs.Filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return revs, metadata, nil
}

// CreateReview posts a review on a title. A user gets one review per title;
// the pre-check catches the common case and the unique index catches the
// race, both surfacing as the same validation error.
func (s *service) CreateReview(titleID int64, author *data.User, body dto.CreateReviewRequestBody) (*data.Review, error) {
	_, err := s.repo.GetTitle(titleID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	review := &data.Review{
		TitleID:  titleID,
		AuthorID: author.ID,
		Author:   author.Username,
		Text:     body.Text,
		Score:    body.Score,
	}
	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	exists, err := s.repo.ReviewExistsForUser(titleID, author.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		v.AddError("title", "you have already reviewed this title")
		return nil, failedValidation(v.Errors)
	}
	err = s.repo.CreateReview(review)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("title", "you have already reviewed this title")
			return nil, failedValidation(v.Errors)
		default:
			return nil, err
		}
	}
	return review, nil
}

// ShowReview retrieves a review by ID, scoped to a title.
func (s *service) ShowReview(titleID, reviewID int64) (*data.Review, error) {
	review, err := s.repo.GetReview(titleID, reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return review, nil
}

// UpdateReview partially updates a review.
func (s *service) UpdateReview(titleID, reviewID int64, body dto.UpdateReviewRequestBody) (*data.Review, error) {
	review, err := s.repo.GetReview(titleID, reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if body.Text != nil {
		review.Text = *body.Text
	}
	if body.Score != nil {
		review.Score = *body.Score
	}
	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err = s.repo.UpdateReview(review)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return review, nil
}

// DeleteReview deletes a review, scoped to a title.
func (s *service) DeleteReview(titleID, reviewID int64) error {
	err := s.repo.DeleteReview(titleID, reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}
