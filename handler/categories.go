package handler

import (
	"errors"
	"net/http"

	"github.com/anaeze/critica/data/dto"
	"github.com/anaeze/critica/internal/validator"
	"github.com/anaeze/critica/service"
)

// listCategoriesHandler retrieves a paginated list of categories.
func (h *Handler) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	var qs dto.QsListCategories
	v := validator.New()
	query := r.URL.Query()
	qs.Search = h.readString(query, "search", "")
	qs.Filters.Page = h.readInt(query, "page", 1, v)
	qs.Filters.PageSize = h.readInt(query, "page_size", 20, v)
	qs.Filters.Sort = h.readString(query, "sort", "name")
	qs.Filters.SortSafeList = []string{"name", "slug", "id", "-name", "-slug", "-id"}
	if !v.Valid() {
		h.errorResponse(w, r, http.StatusBadRequest, v.Errors)
		return
	}
	cats, metadata, err := h.service.ListCategories(qs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"categories": cats, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// createCategoryHandler adds a new category to the catalog.
func (h *Handler) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateCategoryRequestBody
	err := h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	category, err := h.service.CreateCategory(body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"category": category}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// deleteCategoryHandler deletes a category by slug.
func (h *Handler) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	slug := h.readStringParam(r, "slug")
	err := h.service.DeleteCategory(slug)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "category successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
