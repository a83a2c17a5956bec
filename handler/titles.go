package handler

import (
	"errors"
	"net/http"

	"github.com/anaeze/critica/data/dto"
	"github.com/anaeze/critica/internal/validator"
	"github.com/anaeze/critica/service"
)

// listTitlesHandler retrieves a paginated list of titles, filterable by
// name, year, category slug and genre slug.
func (h *Handler) listTitlesHandler(w http.ResponseWriter, r *http.Request) {
	var qs dto.QsListTitles
	v := validator.New()
	query := r.URL.Query()
	qs.Name = h.readString(query, "name", "")
	qs.Year = h.readInt(query, "year", 0, v)
	qs.Category = h.readString(query, "category", "")
	qs.Genre = h.readString(query, "genre", "")
	qs.Filters.Page = h.readInt(query, "page", 1, v)
	qs.Filters.PageSize = h.readInt(query, "page_size", 20, v)
	qs.Filters.Sort = h.readString(query, "sort", "name")
	qs.Filters.SortSafeList = []string{"name", "year", "id", "-name", "-year", "-id"}
	if !v.Valid() {
		h.errorResponse(w, r, http.StatusBadRequest, v.Errors)
		return
	}
	titles, metadata, err := h.service.ListTitles(qs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"titles": titles, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// createTitleHandler adds a new title to the catalog.
func (h *Handler) createTitleHandler(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateTitleRequestBody
	err := h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	title, err := h.service.CreateTitle(body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"title": title}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// showTitleHandler retrieves a title by ID.
func (h *Handler) showTitleHandler(w http.ResponseWriter, r *http.Request) {
	titleID, err := h.readIDParam(r, "titleId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	title, err := h.service.ShowTitle(titleID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"title": title}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// updateTitleHandler partially updates a title.
func (h *Handler) updateTitleHandler(w http.ResponseWriter, r *http.Request) {
	titleID, err := h.readIDParam(r, "titleId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var body dto.UpdateTitleRequestBody
	err = h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	title, err := h.service.UpdateTitle(titleID, body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"title": title}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// deleteTitleHandler deletes a title by ID.
func (h *Handler) deleteTitleHandler(w http.ResponseWriter, r *http.Request) {
	titleID, err := h.readIDParam(r, "titleId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	err = h.service.DeleteTitle(titleID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "title successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
