package service

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"

	"github.com/anaeze/critica/data"
	"github.com/anaeze/critica/internal/validator"
	"github.com/anaeze/critica/repository"
	"github.com/golang-jwt/jwt/v5"
)

type auth interface {
	Signup(username, email string) (*data.User, error)
	CreateAuthenticationToken(username, confirmationCode string) (string, error)
	GetUserForToken(tokenPlaintext string) (*data.User, error)
}

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 20
	tokenTTL     = 24 * time.Hour
)

// Signup registers a new user, or re-issues a confirmation code when the
// same username and email pair signs up again. The code is emailed in the
// background; a delivery failure is logged but never reported to the client,
// so the endpoint leaks nothing about existing accounts.
func (s *service) Signup(username, email string) (*data.User, error) {
	v := validator.New()
	data.ValidateUsername(v, username)
	data.ValidateEmail(v, email)
	if !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	code, err := generateConfirmationCode()
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetUserByUsername(username)
	switch {
	case err == nil:
		if user.Email != email {
			v.AddError("username", "a user with this username already exists")
			return nil, failedValidation(v.Errors)
		}
		// Same pair signing up again: overwrite the stored code.
		err = user.ConfirmationCode.Set(code)
		if err != nil {
			return nil, err
		}
		err = s.repo.UpdateUser(user)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrEditConflict):
				return nil, ErrEditConflict
			default:
				return nil, err
			}
		}
	case errors.Is(err, repository.ErrRecordNotFound):
		_, err = s.repo.GetUserByEmail(email)
		switch {
		case err == nil:
			v.AddError("email", "a user with this email address already exists")
			return nil, failedValidation(v.Errors)
		case errors.Is(err, repository.ErrRecordNotFound):
		default:
			return nil, err
		}
		user = &data.User{
			Username: username,
			Email:    email,
			Role:     data.RoleUser,
		}
		err = user.ConfirmationCode.Set(code)
		if err != nil {
			return nil, err
		}
		err = s.repo.RegisterUser(user)
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
	default:
		return nil, err
	}
	s.background(func() {
		mailData := map[string]interface{}{
			"username":         user.Username,
			"confirmationCode": code,
		}
		err := s.mailer.Send(user.Email, "confirmation_code.tmpl", mailData)
		if err != nil {
			s.logger.PrintError(err, map[string]string{"email": user.Email})
		}
	})
	return user, nil
}

// CreateAuthenticationToken exchanges a username and confirmation code for a
// signed JWT. An unknown username is a not-found; a wrong code is a
// validation error on the confirmation_code field.
func (s *service) CreateAuthenticationToken(username, confirmationCode string) (string, error) {
	v := validator.New()
	v.Check(username != "", "username", "must be provided")
	v.Check(confirmationCode != "", "confirmation_code", "must be provided")
	if !v.Valid() {
		return "", failedValidation(v.Errors)
	}
	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return "", ErrRecordNotFound
		default:
			return "", err
		}
	}
	match, err := user.ConfirmationCode.Matches(confirmationCode)
	if err != nil {
		return "", err
	}
	if !match {
		v.AddError("confirmation_code", "is invalid or has expired")
		return "", failedValidation(v.Errors)
	}
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		Issuer:    s.config.Auth.Issuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Auth.Secret))
}

// GetUserForToken verifies a JWT and loads the user it identifies.
func (s *service) GetUserForToken(tokenPlaintext string) (*data.User, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenPlaintext, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredentials
		}
		return []byte(s.config.Auth.Secret), nil
	}, jwt.WithIssuer(s.config.Auth.Issuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}
	return user, nil
}

// generateConfirmationCode returns a random code drawn from an unambiguous
// uppercase alphabet using crypto/rand.
func generateConfirmationCode() (string, error) {
	code := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}
