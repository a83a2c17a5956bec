package dto

import "github.com/anaeze/critica/data"

// CreateCategoryRequestBody defines the request body for adding a category.
type CreateCategoryRequestBody struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// QsListCategories defines the query string parameters for listing
// categories.
type QsListCategories struct {
	Search string
	data.Filters
}
