package data

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/anaeze/critica/internal/validator"
)

func TestParseRole(t *testing.T) {
	t.Run("known roles round-trip", func(t *testing.T) {
		for _, name := range []string{"user", "moderator", "admin"} {
			role, err := ParseRole(name)
			if err != nil {
				t.Fatalf("ParseRole(%q): %v", name, err)
			}
			if role.String() != name {
				t.Errorf("role %q round-tripped to %q", name, role.String())
			}
		}
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		_, err := ParseRole("superuser")
		if err == nil {
			t.Error("expected an error for an unknown role")
		}
	})
}

func TestRoleOrdering(t *testing.T) {
	if !RoleAdmin.AtLeast(RoleModerator) {
		t.Error("admin must grant moderator access")
	}
	if !RoleModerator.AtLeast(RoleUser) {
		t.Error("moderator must grant user access")
	}
	if RoleUser.AtLeast(RoleModerator) {
		t.Error("user must not grant moderator access")
	}
	if !RoleUser.AtLeast(RoleUser) {
		t.Error("a role must grant its own access")
	}
}

func TestRoleJSON(t *testing.T) {
	t.Run("marshals as name", func(t *testing.T) {
		b, err := json.Marshal(RoleModerator)
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != `"moderator"` {
			t.Errorf("expected %q; got %s", `"moderator"`, b)
		}
	})

	t.Run("unmarshal rejects unknown name", func(t *testing.T) {
		var role Role
		err := json.Unmarshal([]byte(`"owner"`), &role)
		if err == nil {
			t.Error("expected an error for an unknown role name")
		}
	})
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{"simple", "margarita", true},
		{"permitted symbols", "m.user@host_1+x-y", true},
		{"empty", "", false},
		{"reserved me", "me", false},
		{"space", "two words", false},
		{"hash symbol", "user#1", false},
		{"too long", strings.Repeat("a", 151), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateUsername(v, tt.username)
			if v.Valid() != tt.valid {
				t.Errorf("username %q: valid = %v, want %v (errors: %v)", tt.username, v.Valid(), tt.valid, v.Errors)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Run("well-formed address", func(t *testing.T) {
		v := validator.New()
		ValidateEmail(v, "reader@example.com")
		if !v.Valid() {
			t.Errorf("unexpected errors: %v", v.Errors)
		}
	})

	t.Run("malformed address", func(t *testing.T) {
		v := validator.New()
		ValidateEmail(v, "not-an-email")
		if v.Valid() {
			t.Error("expected a validation error")
		}
	})
}

func TestConfirmationCode(t *testing.T) {
	var code ConfirmationCode
	err := code.Set("ABCDEFGH12345678WXYZ")
	if err != nil {
		t.Fatal(err)
	}
	if len(code.Hash) == 0 {
		t.Fatal("expected a hash to be stored")
	}
	match, err := code.Matches("ABCDEFGH12345678WXYZ")
	if err != nil {
		t.Fatal(err)
	}
	if !match {
		t.Error("correct code must match")
	}
	match, err = code.Matches("WRONGCODEWRONGCODE12")
	if err != nil {
		t.Fatal(err)
	}
	if match {
		t.Error("wrong code must not match")
	}
}

func TestConfirmationCodeWithoutStoredHash(t *testing.T) {
	// Users created through the admin endpoint never had a code issued, so
	// their stored hash is empty. Exchanging any code for such a user must
	// read as a plain mismatch, not an error.
	var code ConfirmationCode
	match, err := code.Matches("ABCDEFGH12345678WXYZ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match {
		t.Error("a user without a stored code must never match")
	}
}

func TestAnonymousUser(t *testing.T) {
	if !AnonymousUser.IsAnonymous() {
		t.Error("AnonymousUser must report as anonymous")
	}
	if (&User{}).IsAnonymous() {
		t.Error("a regular user must not report as anonymous")
	}
}
