package data

import (
	"regexp"

	"github.com/anaeze/critica/internal/validator"
)

// SlugRX matches the characters permitted in a category or genre slug.
var SlugRX = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// Category groups titles by kind of work, such as books, films or music.
type Category struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ValidateSlug checks that a slug is well-formed.
func ValidateSlug(v *validator.Validator, slug string) {
	v.Check(slug != "", "slug", "must be provided")
	v.Check(len(slug) <= 50, "slug", "must not be more than 50 characters long")
	v.Check(validator.Matches(slug, SlugRX), "slug", "must contain only letters, digits, hyphens and underscores")
}

// ValidateCategory runs all category field validations.
func ValidateCategory(v *validator.Validator, category *Category) {
	v.Check(category.Name != "", "name", "must be provided")
	v.Check(len(category.Name) <= 256, "name", "must not be more than 256 characters long")
	ValidateSlug(v, category.Slug)
}
