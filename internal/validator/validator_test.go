package validator

import (
	"regexp"
	"testing"
)

func TestValidator(t *testing.T) {
	t.Run("new validator is valid", func(t *testing.T) {
		v := New()
		if !v.Valid() {
			t.Error("a fresh validator must be valid")
		}
	})

	t.Run("failed check records an error", func(t *testing.T) {
		v := New()
		v.Check(false, "field", "must be provided")
		if v.Valid() {
			t.Error("expected the validator to be invalid")
		}
		if v.Errors["field"] != "must be provided" {
			t.Errorf("unexpected errors: %v", v.Errors)
		}
	})

	t.Run("passing check records nothing", func(t *testing.T) {
		v := New()
		v.Check(true, "field", "must be provided")
		if !v.Valid() {
			t.Errorf("unexpected errors: %v", v.Errors)
		}
	})

	t.Run("first error message wins", func(t *testing.T) {
		v := New()
		v.AddError("field", "first")
		v.AddError("field", "second")
		if v.Errors["field"] != "first" {
			t.Errorf("expected the first message to be kept; got %q", v.Errors["field"])
		}
	})
}

func TestMatches(t *testing.T) {
	rx := regexp.MustCompile(`^[a-z]+$`)
	if !Matches("abc", rx) {
		t.Error("expected a match")
	}
	if Matches("abc1", rx) {
		t.Error("expected no match")
	}
}

func TestEmailRX(t *testing.T) {
	if !Matches("user@example.com", EmailRX) {
		t.Error("expected a well-formed address to match")
	}
	if Matches("not-an-email", EmailRX) {
		t.Error("expected a malformed address not to match")
	}
}

func TestPermittedValue(t *testing.T) {
	if !PermittedValue("b", "a", "b", "c") {
		t.Error("expected a listed value to be permitted")
	}
	if PermittedValue("d", "a", "b", "c") {
		t.Error("expected an unlisted value to be rejected")
	}
}

func TestUnique(t *testing.T) {
	if !Unique([]string{"a", "b", "c"}) {
		t.Error("expected distinct values to be unique")
	}
	if Unique([]string{"a", "a"}) {
		t.Error("expected repeated values not to be unique")
	}
}
