package data

import (
	"strings"
	"testing"
	"time"

	"github.com/anaeze/critica/internal/validator"
)

func TestValidateTitle(t *testing.T) {
	valid := func() (*Title, []string) {
		return &Title{Name: "Parasite", Year: 2019}, []string{"drama", "thriller"}
	}

	t.Run("valid title passes", func(t *testing.T) {
		v := validator.New()
		title, genres := valid()
		ValidateTitle(v, title, genres)
		if !v.Valid() {
			t.Errorf("unexpected errors: %v", v.Errors)
		}
	})

	t.Run("current year is allowed", func(t *testing.T) {
		v := validator.New()
		title, genres := valid()
		title.Year = int32(time.Now().Year())
		ValidateTitle(v, title, genres)
		if !v.Valid() {
			t.Errorf("unexpected errors: %v", v.Errors)
		}
	})

	t.Run("future year is rejected", func(t *testing.T) {
		v := validator.New()
		title, genres := valid()
		title.Year = int32(time.Now().Year() + 1)
		ValidateTitle(v, title, genres)
		if v.Valid() {
			t.Error("expected a validation error for a future year")
		}
	})

	t.Run("missing name is rejected", func(t *testing.T) {
		v := validator.New()
		title, genres := valid()
		title.Name = ""
		ValidateTitle(v, title, genres)
		if v.Valid() {
			t.Error("expected a validation error for a missing name")
		}
	})

	t.Run("overlong name is rejected", func(t *testing.T) {
		v := validator.New()
		title, genres := valid()
		title.Name = strings.Repeat("x", 257)
		ValidateTitle(v, title, genres)
		if v.Valid() {
			t.Error("expected a validation error for an overlong name")
		}
	})

	t.Run("empty genre list is rejected", func(t *testing.T) {
		v := validator.New()
		title, _ := valid()
		ValidateTitle(v, title, []string{})
		if v.Valid() {
			t.Error("expected a validation error for an empty genre list")
		}
	})

	t.Run("duplicate genres are rejected", func(t *testing.T) {
		v := validator.New()
		title, _ := valid()
		ValidateTitle(v, title, []string{"drama", "drama"})
		if v.Valid() {
			t.Error("expected a validation error for duplicate genres")
		}
	})
}

func TestValidateReview(t *testing.T) {
	t.Run("score bounds", func(t *testing.T) {
		for score, want := range map[int8]bool{1: true, 5: true, 10: true, 0: false, 11: false} {
			v := validator.New()
			ValidateReview(v, &Review{Text: "fine", Score: score})
			if v.Valid() != want {
				t.Errorf("score %d: valid = %v, want %v", score, v.Valid(), want)
			}
		}
	})

	t.Run("missing text is rejected", func(t *testing.T) {
		v := validator.New()
		ValidateReview(v, &Review{Score: 7})
		if v.Valid() {
			t.Error("expected a validation error for missing text")
		}
	})
}

func TestValidateComment(t *testing.T) {
	v := validator.New()
	ValidateComment(v, &Comment{Text: ""})
	if v.Valid() {
		t.Error("expected a validation error for missing text")
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name  string
		slug  string
		valid bool
	}{
		{"simple", "science-fiction", true},
		{"underscore and digits", "rock_70s", true},
		{"empty", "", false},
		{"space", "two words", false},
		{"unicode", "драма", false},
		{"too long", strings.Repeat("a", 51), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateSlug(v, tt.slug)
			if v.Valid() != tt.valid {
				t.Errorf("slug %q: valid = %v, want %v", tt.slug, v.Valid(), tt.valid)
			}
		})
	}
}
