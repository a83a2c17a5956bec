package data

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/anaeze/critica/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

// UsernameRX matches the set of characters permitted in a username: letters,
// digits and the @/./+/-/_ symbols.
var UsernameRX = regexp.MustCompile(`^[\w.@+-]+$`)

// Role represents a user's access level. Roles are ordered: each role grants
// everything the roles below it grant.
type Role int8

const (
	RoleUser Role = iota
	RoleModerator
	RoleAdmin
)

// ErrInvalidRole is returned when parsing an unknown role name.
var ErrInvalidRole = errors.New("invalid role")

// ParseRole converts a role name into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "user":
		return RoleUser, nil
	case "moderator":
		return RoleModerator, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return 0, ErrInvalidRole
	}
}

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleModerator:
		return "moderator"
	case RoleAdmin:
		return "admin"
	default:
		return ""
	}
}

// AtLeast reports whether the role grants at least the access of other.
func (r Role) AtLeast(other Role) bool {
	return r >= other
}

// MarshalJSON encodes the role as its name.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a role name.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	role, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// Scan implements the sql.Scanner interface. Roles are stored by name.
func (r *Role) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("unsupported role type %T", value)
	}
	role, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// Value implements the driver.Valuer interface.
func (r Role) Value() (driver.Value, error) {
	s := r.String()
	if s == "" {
		return nil, ErrInvalidRole
	}
	return s, nil
}

// User defines a registered user of the service.
type User struct {
	ID               int64            `json:"id"`
	CreatedAt        time.Time        `json:"-"`
	Username         string           `json:"username"`
	Email            string           `json:"email"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	Bio              string           `json:"bio"`
	Role             Role             `json:"role"`
	ConfirmationCode ConfirmationCode `json:"-"`
	Version          int32            `json:"-"`
}

// AnonymousUser represents an unauthenticated request.
var AnonymousUser = &User{}

// IsAnonymous checks if a User instance is the AnonymousUser.
func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

// ConfirmationCode holds the plaintext and bcrypt hash of a user's emailed
// confirmation code. The plaintext is only present on the instance that
// generated the code; only the hash is persisted.
type ConfirmationCode struct {
	Plaintext *string
	Hash      []byte
}

// Set calculates the bcrypt hash of a plaintext code and stores both the
// hash and the plaintext.
func (c *ConfirmationCode) Set(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	c.Plaintext = &plaintext
	c.Hash = hash
	return nil
}

// Matches checks whether the provided plaintext code matches the stored hash.
// Users created by an administrator never had a code issued, so a missing or
// malformed stored hash reads as a mismatch rather than an error.
func (c *ConfirmationCode) Matches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(c.Hash, []byte(plaintext))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		case errors.Is(err, bcrypt.ErrHashTooShort):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

// ValidateUsername checks that a username is well-formed. "me" is reserved
// for the profile endpoint and can never be registered.
func ValidateUsername(v *validator.Validator, username string) {
	v.Check(username != "", "username", "must be provided")
	v.Check(len(username) <= 150, "username", "must not be more than 150 characters long")
	v.Check(validator.Matches(username, UsernameRX), "username", "must contain only letters, digits and @/./+/-/_ characters")
	v.Check(username != "me", "username", "is reserved")
}

// ValidateEmail checks that an email address is well-formed.
func ValidateEmail(v *validator.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(len(email) <= 254, "email", "must not be more than 254 characters long")
	v.Check(validator.Matches(email, validator.EmailRX), "email", "must be a valid email address")
}

// ValidateUser runs all user field validations.
func ValidateUser(v *validator.Validator, user *User) {
	ValidateUsername(v, user.Username)
	ValidateEmail(v, user.Email)
	v.Check(len(user.FirstName) <= 150, "first_name", "must not be more than 150 characters long")
	v.Check(len(user.LastName) <= 150, "last_name", "must not be more than 150 characters long")
}
