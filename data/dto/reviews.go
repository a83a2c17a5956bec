package dto

import "github.com/anaeze/critica/data"

// CreateReviewRequestBody defines the request body for posting a review.
type CreateReviewRequestBody struct {
	Text  string `json:"text"`
	Score int8   `json:"score"`
}

// UpdateReviewRequestBody defines the request body for partially updating a
// review.
type UpdateReviewRequestBody struct {
	Text  *string `json:"text"`
	Score *int8   `json:"score"`
}

// QsListReviews defines the query string parameters for listing reviews.
type QsListReviews struct {
	data.Filters
}
