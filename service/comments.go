package service

import (
	"errors"

	"github.com/anaeze/critica/data"
	"github.com/anaeze/critica/data/dto"
	"github.com/anaeze/critica/internal/validator"
	"github.com/anaeze/critica/repository"
)

type comments interface {
	ListComments(titleID, reviewID int64, qs dto.QsListComments) ([]*data.Comment, data.Metadata, error)
	CreateComment(titleID, reviewID int64, author *data.User, body dto.CreateCommentRequestBody) (*data.Comment, error)
	ShowComment(titleID, reviewID, commentID int64) (*data.Comment, error)
	UpdateComment(titleID, reviewID, commentID int64, body dto.UpdateCommentRequestBody) (*data.Comment, error)
	DeleteComment(titleID, reviewID, commentID int64) error
}

// ListComments retrieves a paginated list of comments on a review. The
// review must exist under the given title.
func (s *service) ListComments(titleID, reviewID int64, qs dto.QsListComments) ([]*data.Comment, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	_, err := s.repo.GetReview(titleID, reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, data.Metadata{}, ErrRecordNotFound
		default:
			return nil, data.Metadata{}, err
		}
	}
	comms, metadata, err := s.repo.GetAllCommentsForReview(reviewID, qs.Filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return comms, metadata, nil
}

// CreateComment posts a comment on a review.
func (s *service) CreateComment(titleID, reviewID int64, author *data.User, body dto.CreateCommentRequestBody) (*data.Comment, error) {
	_, err := s.repo.GetReview(titleID, reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	comment := &data.Comment{
		ReviewID: reviewID,
		AuthorID: author.ID,
		Author:   author.Username,
		Text:     body.Text,
	}
	v := validator.New()
	if data.ValidateComment(v, comment); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err = s.repo.CreateComment(comment)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ShowComment retrieves a comment by ID, scoped to a review under a title.
func (s *service) ShowComment(titleID, reviewID, commentID int64) (*data.Comment, error) {
	_, err := s.repo.GetReview(titleID, reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	comment, err := s.repo.GetComment(reviewID, commentID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return comment, nil
}

// UpdateComment partially updates a comment.
func (s *service) UpdateComment(titleID, reviewID, commentID int64, body dto.UpdateCommentRequestBody) (*data.Comment, error) {
	comment, err := s.ShowComment(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if body.Text != nil {
		comment.Text = *body.Text
	}
	v := validator.New()
	if data.ValidateComment(v, comment); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err = s.repo.UpdateComment(comment)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return comment, nil
}

// DeleteComment deletes a comment, scoped to a review under a title.
func (s *service) DeleteComment(titleID, reviewID, commentID int64) error {
	_, err := s.repo.GetReview(titleID, reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	err = s.repo.DeleteComment(reviewID, commentID)
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
