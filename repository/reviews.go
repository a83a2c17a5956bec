package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anaeze/critica/data"
)

type reviews interface {
	CreateReview(review *data.Review) error
	GetReview(titleID, reviewID int64) (*data.Review, error)
	GetAllReviewsForTitle(titleID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
	UpdateReview(review *data.Review) error
	DeleteReview(titleID, reviewID int64) error
	ReviewExistsForUser(titleID, authorID int64) (bool, error)
}

// CreateReview inserts a new review record. The unique index on
// (author_id, title_id) backstops the one-review-per-user rule under
// concurrent requests.
func (r *repository) CreateReview(review *data.Review) error {
	query := `
		INSERT INTO reviews (title_id, author_id, text, score)
		VALUES ($1, $2, $3, $4)
		RETURNING id, pub_date, version`
	args := []interface{}{review.TitleID, review.AuthorID, review.Text, review.Score}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&review.ID,
		&review.PubDate,
		&review.Version,
	)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "reviews_author_id_title_id_key"`:
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// GetReview retrieves a review record by its ID, scoped to a title so a
// review can never be reached through the wrong title's URL.
func (r *repository) GetReview(titleID, reviewID int64) (*data.Review, error) {
	query := `
		SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.pub_date, r.version
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.id = $1 AND r.title_id = $2`
	var review data.Review
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, reviewID, titleID).Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.Author,
		&review.Text,
		&review.Score,
		&review.PubDate,
		&review.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &review, nil
}

// GetAllReviewsForTitle retrieves a paginated list of reviews for a title.
func (r *repository) GetAllReviewsForTitle(titleID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.pub_date, r.version
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.title_id = $1
		ORDER BY r.%s %s, r.id ASC
		LIMIT $2 OFFSET $3`, filters.SortColumn(), filters.SortDirection())
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	args := []interface{}{titleID, filters.Limit(), filters.Offset()}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	revs := []*data.Review{}
	for rows.Next() {
		var review data.Review
		err := rows.Scan(
			&totalRecords,
			&review.ID,
			&review.TitleID,
			&review.AuthorID,
			&review.Author,
			&review.Text,
			&review.Score,
			&review.PubDate,
			&review.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		revs = append(revs, &review)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return revs, metadata, nil
}

// UpdateReview updates a review record. Uses optimistic locking to prevent
// race conditions during concurrent edits.
func (r *repository) UpdateReview(review *data.Review) error {
	query := `
		UPDATE reviews
		SET text = $1, score = $2, version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version`
	args := []interface{}{review.Text, review.Score, review.ID, review.Version}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&review.Version)
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

// DeleteReview deletes a review record, scoped to a title. Comments on the
// review go with it.
func (r *repository) DeleteReview(titleID, reviewID int64) error {
	query := `
		DELETE FROM reviews
		WHERE id = $1 AND title_id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, reviewID, titleID)
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

// ReviewExistsForUser reports whether a user has already reviewed a title.
func (r *repository) ReviewExistsForUser(titleID, authorID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reviews
			WHERE title_id = $1 AND author_id = $2)`
	var exists bool
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, titleID, authorID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
