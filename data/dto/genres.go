package dto

import "github.com/anaeze/critica/data"

// CreateGenreRequestBody defines the request body for adding a genre.
type CreateGenreRequestBody struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// QsListGenres defines the query string parameters for listing genres.
type QsListGenres struct {
	Search string
	data.Filters
}
