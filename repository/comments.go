package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anaeze/critica/data"
)

type comments interface {
	CreateComment(comment *data.Comment) error
	GetComment(reviewID, commentID int64) (*data.Comment, error)
	GetAllCommentsForReview(reviewID int64, filters data.Filters) ([]*data.Comment, data.Metadata, error)
	UpdateComment(comment *data.Comment) error
	DeleteComment(reviewID, commentID int64) error
}

// CreateComment inserts a new comment record.
func (r *repository) CreateComment(comment *data.Comment) error {
	query := `
		INSERT INTO comments (review_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, pub_date, version`
	args := []interface{}{comment.ReviewID, comment.AuthorID, comment.Text}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&comment.ID,
		&comment.PubDate,
		&comment.Version,
	)
	if err != nil {
		return err
	}
	return nil
}

// GetComment retrieves a comment record by its ID, scoped to a review.
func (r *repository) GetComment(reviewID, commentID int64) (*data.Comment, error) {
	query := `
		SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date, c.version
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1 AND c.review_id = $2`
	var comment data.Comment
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, commentID, reviewID).Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.AuthorID,
		&comment.Author,
		&comment.Text,
		&comment.PubDate,
		&comment.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &comment, nil
}

// GetAllCommentsForReview retrieves a paginated list of comments on a review.
func (r *repository) GetAllCommentsForReview(reviewID int64, filters data.Filters) ([]*data.Comment, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date, c.version
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.review_id = $1
		ORDER BY c.%s %s, c.id ASC
		LIMIT $2 OFFSET $3`, filters.SortColumn(), filters.SortDirection())
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	args := []interface{}{reviewID, filters.Limit(), filters.Offset()}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	comms := []*data.Comment{}
	for rows.Next() {
		var comment data.Comment
		err := rows.Scan(
			&totalRecords,
			&comment.ID,
			&comment.ReviewID,
			&comment.AuthorID,
			&comment.Author,
			&comment.Text,
			&comment.PubDate,
			&comment.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		comms = append(comms, &comment)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return comms, metadata, nil
}

// UpdateComment updates a comment record. Uses optimistic locking to prevent
// race conditions during concurrent edits.
func (r *repository) UpdateComment(comment *data.Comment) error {
	query := `
		UPDATE comments
		SET text = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version`
	args := []interface{}{comment.Text, comment.ID, comment.Version}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&comment.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteComment deletes a comment record, scoped to a review.
func (r *repository) DeleteComment(reviewID, commentID int64) error {
	query := `
		DELETE FROM comments
		WHERE id = $1 AND review_id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, commentID, reviewID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
