package dto

import "github.com/anaeze/critica/data"

// CreateCommentRequestBody defines the request body for commenting on a
// review.
type CreateCommentRequestBody struct {
	Text string `json:"text"`
}

// UpdateCommentRequestBody defines the request body for partially updating a
// comment.
type UpdateCommentRequestBody struct {
	Text *string `json:"text"`
}

// QsListComments defines the query string parameters for listing comments.
type QsListComments struct {
	data.Filters
}
