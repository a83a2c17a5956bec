package service

import (
	"errors"

	"github.com/anaeze/critica/data"
	"github.com/anaeze/critica/data/dto"
	"github.com/anaeze/critica/internal/validator"
	"github.com/anaeze/critica/repository"
)

type categories interface {
	ListCategories(qs dto.QsListCategories) ([]*data.Category, data.Metadata, error)
	CreateCategory(body dto.CreateCategoryRequestBody) (*data.Category, error)
	DeleteCategory(slug string) error
}

// ListCategories retrieves a paginated list of categories.
func (s *service) ListCategories(qs dto.QsListCategories) ([]*data.Category, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	cats, metadata, err := s.repo.GetAllCategories(qs.Search, qs.Filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return cats, metadata, nil
}

// CreateCategory adds a new category to the catalog.
func (s *service) CreateCategory(body dto.CreateCategoryRequestBody) (*data.Category, error) {
	category := &data.Category{
		Name: body.Name,
		Slug: body.Slug,
	}
	v := validator.New()
	if data.ValidateCategory(v, category); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err := s.repo.CreateCategory(category)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("slug", "a category with this slug already exists")
			return nil, failedValidation(v.Errors)
		default:
			return nil, err
		}
	}
	return category, nil
}

// DeleteCategory deletes a category by slug.
func (s *service) DeleteCategory(slug string) error {
	err := s.repo.DeleteCategoryBySlug(slug)
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
