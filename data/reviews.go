package data

import (
	"time"

	"github.com/anaeze/critica/internal/validator"
)

// Review is a user's opinion of a title together with a score from 1 to 10.
// Each user gets at most one review per title.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int8      `json:"score"`
	PubDate  time.Time `json:"pub_date"`
	Version  int32     `json:"-"`
}

// ValidateReview runs all review field validations.
func ValidateReview(v *validator.Validator, review *Review) {
	v.Check(review.Text != "", "text", "must be provided")
	v.Check(review.Score != 0, "score", "must be provided")
	v.Check(review.Score >= 1, "score", "must be at least 1")
	v.Check(review.Score <= 10, "score", "must be at most 10")
}
