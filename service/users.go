package service

import (
	"errors"

	"github.com/anaeze/critica/data"
	"github.com/anaeze/critica/data/dto"
	"github.com/anaeze/critica/internal/validator"
	"github.com/anaeze/critica/repository"
)

type users interface {
	ListUsers(qs dto.QsListUsers) ([]*data.User, data.Metadata, error)
	CreateUser(body dto.CreateUserRequestBody) (*data.User, error)
	ShowUser(username string) (*data.User, error)
	UpdateUser(username string, body dto.UpdateUserRequestBody) (*data.User, error)
	UpdateProfile(user *data.User, body dto.UpdateProfileRequestBody) (*data.User, error)
	DeleteUser(username string) error
}

// ListUsers retrieves a paginated list of users.
func (s *service) ListUsers(qs dto.QsListUsers) ([]*data.User, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	users, metadata, err := s.repo.GetAllUsers(qs.Search, qs.Filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return users, metadata, nil
}

// CreateUser creates a user on behalf of an administrator. Unlike signup, the
// role can be set directly and no confirmation code is emailed; the user
// obtains one via signup with the same username and email pair.
func (s *service) CreateUser(body dto.CreateUserRequestBody) (*data.User, error) {
	user := &data.User{
		Username:  body.Username,
		Email:     body.Email,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Bio:       body.Bio,
		Role:      data.RoleUser,
	}
	if body.Role != nil {
		user.Role = *body.Role
	}
	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err := s.repo.RegisterUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			v.AddError("username", "a user with this username already exists")
			return nil, failedValidation(v.Errors)
		case errors.Is(err, repository.ErrDuplicateEmail):
			v.AddError("email", "a user with this email address already exists")
			return nil, failedValidation(v.Errors)
		default:
			return nil, err
		}
	}
	return user, nil
}

// ShowUser retrieves a user by username.
func (s *service) ShowUser(username string) (*data.User, error) {
	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}

// UpdateUser partially updates a user record on behalf of an administrator.
func (s *service) UpdateUser(username string, body dto.UpdateUserRequestBody) (*data.User, error) {
	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if body.Username != nil {
		user.Username = *body.Username
	}
	if body.Email != nil {
		user.Email = *body.Email
	}
	if body.FirstName != nil {
		user.FirstName = *body.FirstName
	}
	if body.LastName != nil {
		user.LastName = *body.LastName
	}
	if body.Bio != nil {
		user.Bio = *body.Bio
	}
	if body.Role != nil {
		user.Role = *body.Role
	}
	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err = s.updateUser(user, v)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile partially updates the authenticated user's own record. The
// request body has no role field, so a user can never raise their own access.
func (s *service) UpdateProfile(user *data.User, body dto.UpdateProfileRequestBody) (*data.User, error) {
	if body.Username != nil {
		user.Username = *body.Username
	}
	if body.Email != nil {
		user.Email = *body.Email
	}
	if body.FirstName != nil {
		user.FirstName = *body.FirstName
	}
	if body.LastName != nil {
		user.LastName = *body.LastName
	}
	if body.Bio != nil {
		user.Bio = *body.Bio
	}
	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err := s.updateUser(user, v)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// updateUser persists a user update, mapping repository errors.
func (s *service) updateUser(user *data.User, v *validator.Validator) error {
	err := s.repo.UpdateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			v.AddError("username", "a user with this username already exists")
			return failedValidation(v.Errors)
		case errors.Is(err, repository.ErrDuplicateEmail):
			v.AddError("email", "a user with this email address already exists")
			return failedValidation(v.Errors)
		case errors.Is(err, repository.ErrEditConflict):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteUser deletes a user by username.
func (s *service) DeleteUser(username string) error {
	err := s.repo.DeleteUserByUsername(username)
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
