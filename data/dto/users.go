// Package dto defines the request bodies and query string parameters the
// API accepts.
package dto

import "github.com/anaeze/critica/data"

// SignupRequestBody defines the request body for user self-registration.
type SignupRequestBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CreateTokenRequestBody defines the request body for exchanging a
// confirmation code for an access token.
type CreateTokenRequestBody struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

// CreateUserRequestBody defines the request body for admin user creation.
type CreateUserRequestBody struct {
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Bio       string     `json:"bio"`
	Role      *data.Role `json:"role"`
}

// UpdateUserRequestBody defines the request body for admin user updates.
// Pointer fields distinguish absent keys from zero values.
type UpdateUserRequestBody struct {
	Username  *string    `json:"username"`
	Email     *string    `json:"email"`
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	Bio       *string    `json:"bio"`
	Role      *data.Role `json:"role"`
}

// UpdateProfileRequestBody defines the request body for a user editing their
// own profile. It deliberately has no role field; the strict JSON decoder
// rejects bodies that include one.
type UpdateProfileRequestBody struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

// QsListUsers defines the query string parameters for listing users.
type QsListUsers struct {
	Search string
	data.Filters
}
