package data

import "github.com/anaeze/critica/internal/validator"

// Genre labels a title with a narrative or stylistic tag. A title carries one
// or more genres.
type Genre struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ValidateGenre runs all genre field validations.
func ValidateGenre(v *validator.Validator, genre *Genre) {
	v.Check(genre.Name != "", "name", "must be provided")
	v.Check(len(genre.Name) <= 256, "name", "must not be more than 256 characters long")
	ValidateSlug(v, genre.Slug)
}
