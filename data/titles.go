package data

import (
	"time"

	"github.com/anaeze/critica/internal/validator"
)

// Title is a work users can review: a book, a film, a record. Titles never
// hold the works themselves, only their catalog entries.
type Title struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"-"`
	Name        string    `json:"name"`
	Year        int32     `json:"year"`
	Description string    `json:"description,omitempty"`
	Rating      *float64  `json:"rating"`
	Category    *Category `json:"category,omitempty"`
	Genres      []Genre   `json:"genre"`
	Version     int32     `json:"-"`
}

// ValidateTitle runs all title field validations. The category and genre
// slugs are resolved against the catalog separately.
func ValidateTitle(v *validator.Validator, title *Title, genreSlugs []string) {
	v.Check(title.Name != "", "name", "must be provided")
	v.Check(len(title.Name) <= 256, "name", "must not be more than 256 characters long")
	v.Check(title.Year != 0, "year", "must be provided")
	v.Check(title.Year > 0, "year", "must be a positive number")
	v.Check(title.Year <= int32(time.Now().Year()), "year", "must not be in the future")
	v.Check(len(genreSlugs) >= 1, "genre", "must contain at least 1 genre")
	v.Check(validator.Unique(genreSlugs), "genre", "must not contain duplicate values")
}
