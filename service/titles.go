package service

import (
	"errors"

	"github.com/anaeze/critica/data"
	"github.com/anaeze/critica/data/dto"
	"github.com/anaeze/critica/internal/validator"
	"github.com/anaeze/critica/repository"
)

type titles interface {
	ListTitles(qs dto.QsListTitles) ([]*data.Title, data.Metadata, error)
	CreateTitle(body dto.CreateTitleRequestBody) (*data.Title, error)
	ShowTitle(titleID int64) (*data.Title, error)
	UpdateTitle(titleID int64, body dto.UpdateTitleRequestBody) (*data.Title, error)
	DeleteTitle(titleID int64) error
}

// ListTitles retrieves a paginated list of titles.
func (s *service) ListTitles(qs dto.QsListTitles) ([]*data.Title, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	titles, metadata, err := s.repo.GetAllTitles(qs.Name, qs.Year, qs.Category, qs.Genre, qs.Filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return titles, metadata, nil
}

// CreateTitle adds a new title to the catalog. The category and genre slugs
// must already exist; an unknown slug is a validation error, not a 404, since
// the missing resource is in the request body rather than the URL.
func (s *service) CreateTitle(body dto.CreateTitleRequestBody) (*data.Title, error) {
	title := &data.Title{
		Name:        body.Name,
		Year:        body.Year,
		Description: body.Description,
	}
	v := validator.New()
	data.ValidateTitle(v, title, body.Genres)
	v.Check(body.Category != "", "category", "must be provided")
	if !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	categoryID, err := s.resolveCategory(body.Category, v)
	if err != nil {
		return nil, err
	}
	genreIDs, genres, err := s.resolveGenres(body.Genres, v)
	if err != nil {
		return nil, err
	}
	err = s.repo.CreateTitle(title, categoryID, genreIDs)
	if err != nil {
		return nil, err
	}
	title.Genres = genres
	return s.ShowTitle(title.ID)
}

// ShowTitle retrieves a title by ID.
func (s *service) ShowTitle(titleID int64) (*data.Title, error) {
	title, err := s.repo.GetTitle(titleID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return title, nil
}

// UpdateTitle partially updates a title. Genre links are replaced only when
// the request body carries a genre key.
func (s *service) UpdateTitle(titleID int64, body dto.UpdateTitleRequestBody) (*data.Title, error) {
	title, err := s.repo.GetTitle(titleID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if body.Name != nil {
		title.Name = *body.Name
	}
	if body.Year != nil {
		title.Year = *body.Year
	}
	if body.Description != nil {
		title.Description = *body.Description
	}
	categorySlug := ""
	if title.Category != nil {
		categorySlug = title.Category.Slug
	}
	if body.Category != nil {
		categorySlug = *body.Category
	}
	genreSlugs := make([]string, 0, len(title.Genres))
	for _, genre := range title.Genres {
		genreSlugs = append(genreSlugs, genre.Slug)
	}
	if body.Genres != nil {
		genreSlugs = body.Genres
	}
	v := validator.New()
	data.ValidateTitle(v, title, genreSlugs)
	if body.Category != nil {
		// An explicit empty slug would silently unset the category, which
		// create requires.
		v.Check(*body.Category != "", "category", "must be provided")
	}
	if !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	var categoryID *int64
	if categorySlug != "" {
		categoryID, err = s.resolveCategory(categorySlug, v)
		if err != nil {
			return nil, err
		}
	}
	var genreIDs []int64
	if body.Genres != nil {
		genreIDs, _, err = s.resolveGenres(body.Genres, v)
		if err != nil {
			return nil, err
		}
	}
	err = s.repo.UpdateTitle(title, categoryID, genreIDs)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return s.ShowTitle(title.ID)
}

// DeleteTitle deletes a title by ID.
func (s *service) DeleteTitle(titleID int64) error {
	err := s.repo.DeleteTitle(titleID)
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

// resolveCategory looks up a category slug and returns its ID.
func (s *service) resolveCategory(slug string, v *validator.Validator) (*int64, error) {
	category, err := s.repo.GetCategoryBySlug(slug)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("category", "no category with this slug exists")
			return nil, failedValidation(v.Errors)
		default:
			return nil, err
		}
	}
	return &category.ID, nil
}

// resolveGenres looks up a list of genre slugs and returns their IDs.
func (s *service) resolveGenres(slugs []string, v *validator.Validator) ([]int64, []data.Genre, error) {
	genreIDs := make([]int64, 0, len(slugs))
	genres := make([]data.Genre, 0, len(slugs))
	for _, slug := range slugs {
		genre, err := s.repo.GetGenreBySlug(slug)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrRecordNotFound):
				v.AddError("genre", "no genre with slug "+slug+" exists")
				return nil, nil, failedValidation(v.Errors)
			default:
				return nil, nil, err
			}
		}
		genreIDs = append(genreIDs, genre.ID)
		genres = append(genres, *genre)
	}
	return genreIDs, genres, nil
}
