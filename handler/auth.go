package handler

import (
	"errors"
	"net/http"

	"github.com/anaeze/critica/data/dto"
	"github.com/anaeze/critica/service"
)

// signupHandler registers a new user and emails them a confirmation code.
// The code never appears in the response.
func (h *Handler) signupHandler(w http.ResponseWriter, r *http.Request) {
	var body dto.SignupRequestBody
	err := h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user, err := h.service.Signup(body.Username, body.Email)
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
	env := envelope{
		"username": user.Username,
		"email":    user.Email,
	}
	err = h.encodeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// createAuthenticationTokenHandler exchanges a username and confirmation code
// for a signed access token.
func (h *Handler) createAuthenticationTokenHandler(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateTokenRequestBody
	err := h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	token, err := h.service.CreateAuthenticationToken(body.Username, body.ConfirmationCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"token": token}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
