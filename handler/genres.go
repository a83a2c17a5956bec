package handler

import (
	"errors"
	"net/http"

	"github.com/anaeze/critica/data/dto"
	"github.com/anaeze/critica/internal/validator"
	"github.com/anaeze/critica/service"
)

// listGenresHandler retrieves a paginated list of genres.
func (h *Handler) listGenresHandler(w http.ResponseWriter, r *http.Request) {
	var qs dto.QsListGenres
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
	gens, metadata, err := h.service.ListGenres(qs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"genres": gens, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// createGenreHandler adds a new genre to the catalog.
func (h *Handler) createGenreHandler(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateGenreRequestBody
	err := h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	genre, err := h.service.CreateGenre(body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"genre": genre}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// deleteGenreHandler deletes a genre by slug.
func (h *Handler) deleteGenreHandler(w http.ResponseWriter, r *http.Request) {
	slug := h.readStringParam(r, "slug")
	err := h.service.DeleteGenre(slug)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "genre successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
