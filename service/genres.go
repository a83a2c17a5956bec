package service

import (
	"errors"

	"github.com/anaeze/critica/data"
	"github.com/anaeze/critica/data/dto"
	"github.com/anaeze/critica/internal/validator"
	"github.com/anaeze/critica/repository"
)

type genres interface {
	ListGenres(qs dto.QsListGenres) ([]*data.Genre, data.Metadata, error)
	CreateGenre(body dto.CreateGenreRequestBody) (*data.Genre, error)
	DeleteGenre(slug string) error
}

// ListGenres retrieves a paginated list of genres.
func (s *service) ListGenres(qs dto.QsListGenres) ([]*data.Genre, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	gens, metadata, err := s.repo.GetAllGenres(qs.Search, qs.Filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return gens, metadata, nil
}

// CreateGenre adds a new genre to the catalog.
func (s *service) CreateGenre(body dto.CreateGenreRequestBody) (*data.Genre, error) {
	genre := &data.Genre{
		Name: body.Name,
		Slug: body.Slug,
	}
	v := validator.New()
	if data.ValidateGenre(v, genre); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err := s.repo.CreateGenre(genre)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("slug", "a genre with this slug already exists")
			return nil, failedValidation(v.Errors)
		default:
			return nil, err
		}
	}
	return genre, nil
}

// DeleteGenre deletes a genre by slug.
func (s *service) DeleteGenre(slug string) error {
	err := s.repo.DeleteGenreBySlug(slug)
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
