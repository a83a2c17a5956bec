package handler

import (
	"errors"
	"net/http"

	"github.com/anaeze/critica/data"
	"github.com/anaeze/critica/data/dto"
	"github.com/anaeze/critica/internal/validator"
	"github.com/anaeze/critica/service"
)

// listUsersHandler retrieves a paginated list of users.
func (h *Handler) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	var qs dto.QsListUsers
	v := validator.New()
	query := r.URL.Query()
	qs.Search = h.readString(query, "search", "")
	qs.Filters.Page = h.readInt(query, "page", 1, v)
	qs.Filters.PageSize = h.readInt(query, "page_size", 20, v)
	qs.Filters.Sort = h.readString(query, "sort", "username")
	qs.Filters.SortSafeList = []string{"username", "id", "-username", "-id"}
	if !v.Valid() {
		h.errorResponse(w, r, http.StatusBadRequest, v.Errors)
		return
	}
	users, metadata, err := h.service.ListUsers(qs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"users": users, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// createUserHandler creates a user on behalf of an administrator.
func (h *Handler) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateUserRequestBody
	err := h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user, err := h.service.CreateUser(body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"user": user}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// showUserHandler retrieves a user by username. The reserved username "me"
// resolves to the authenticated user; any other username requires an
// administrator.
func (h *Handler) showUserHandler(w http.ResponseWriter, r *http.Request) {
	username := h.readStringParam(r, "username")
	authenticated := h.contextGetUser(r)
	if username == "me" {
		err := h.encodeJSON(w, http.StatusOK, envelope{"user": authenticated}, nil)
		if err != nil {
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	if !authenticated.Role.AtLeast(data.RoleAdmin) {
		h.notPermittedResponse(w, r)
		return
	}
	user, err := h.service.ShowUser(username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// updateUserHandler partially updates a user. "me" edits the authenticated
// user's own profile through a body that has no role field; any other
// username requires an administrator and accepts a role.
func (h *Handler) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	username := h.readStringParam(r, "username")
	authenticated := h.contextGetUser(r)
	if username == "me" {
		var body dto.UpdateProfileRequestBody
		err := h.decodeJSON(w, r, &body)
		if err != nil {
			h.badRequestResponse(w, r, err)
			return
		}
		user, err := h.service.UpdateProfile(authenticated, body)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrFailedValidation):
				h.failedValidationResponse(w, r, err)
			case errors.Is(err, service.ErrEditConflict):
				h.editConflictResponse(w, r)
			default:
				h.serverErrorResponse(w, r, err)
			}
			return
		}
		err = h.encodeJSON(w, http.StatusOK, envelope{"user": user}, nil)
		if err != nil {
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	if !authenticated.Role.AtLeast(data.RoleAdmin) {
		h.notPermittedResponse(w, r)
		return
	}
	var body dto.UpdateUserRequestBody
	err := h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user, err := h.service.UpdateUser(username, body)
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
	err = h.encodeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// deleteUserHandler deletes a user by username. Deleting "me" is not
// supported; accounts are removed by administrators only.
func (h *Handler) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	username := h.readStringParam(r, "username")
	if username == "me" {
		h.methodNotAllowed(w, r)
		return
	}
	authenticated := h.contextGetUser(r)
	if !authenticated.Role.AtLeast(data.RoleAdmin) {
		h.notPermittedResponse(w, r)
		return
	}
	err := h.service.DeleteUser(username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "user successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
