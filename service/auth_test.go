package service

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerateConfirmationCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		code, err := generateConfirmationCode()
		if err != nil {
			t.Fatal(err)
		}
		if len(code) != codeLength {
			t.Fatalf("code length = %d, want %d", len(code), codeLength)
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		if seen[code] {
			t.Fatalf("code %q generated twice in 10 draws", code)
		}
		seen[code] = true
	}
}

func TestValidationError(t *testing.T) {
	err := failedValidation(map[string]string{
		"username": "must be provided",
		"email":    "must be a valid email address",
	})

	t.Run("detectable with errors.Is", func(t *testing.T) {
		if !errors.Is(err, ErrFailedValidation) {
			t.Error("ValidationError must unwrap to ErrFailedValidation")
		}
	})

	t.Run("fields extractable with errors.As", func(t *testing.T) {
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatal("expected errors.As to find a *ValidationError")
		}
		if validationErr.Fields["username"] != "must be provided" {
			t.Errorf("unexpected fields: %v", validationErr.Fields)
		}
	})

	t.Run("message is stable", func(t *testing.T) {
		if err.Error() != "email: must be a valid email address; username: must be provided" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}
