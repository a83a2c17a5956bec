package dto

import "github.com/anaeze/critica/data"

// CreateTitleRequestBody defines the request body for adding a title to the
// catalog. Category and genres are referenced by slug.
type CreateTitleRequestBody struct {
	Name        string   `json:"name"`
	Year        int32    `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genres      []string `json:"genre"`
}

// UpdateTitleRequestBody defines the request body for partially updating a
// title.
type UpdateTitleRequestBody struct {
	Name        *string  `json:"name"`
	Year        *int32   `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genres      []string `json:"genre"`
}

// QsListTitles defines the query string parameters for listing titles.
type QsListTitles struct {
	Name     string
	Year     int
	Category string
	Genre    string
	data.Filters
}
