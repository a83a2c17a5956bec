package data

import (
	"time"

	"github.com/anaeze/critica/internal/validator"
)

// Comment is a remark left on a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
	Version  int32     `json:"-"`
}

// ValidateComment runs all comment field validations.
func ValidateComment(v *validator.Validator, comment *Comment) {
	v.Check(comment.Text != "", "text", "must be provided")
}
