package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anaeze/critica/data"
)

type titles interface {
	CreateTitle(title *data.Title, categoryID *int64, genreIDs []int64) error
	GetTitle(titleID int64) (*data.Title, error)
	GetAllTitles(name string, year int, categorySlug, genreSlug string, filters data.Filters) ([]*data.Title, data.Metadata, error)
	UpdateTitle(title *data.Title, categoryID *int64, genreIDs []int64) error
	DeleteTitle(titleID int64) error
}

// CreateTitle inserts a new title record together with its genre links.
// Runs in a transaction so a failed genre link never leaves a half-created
// title behind.
func (r *repository) CreateTitle(title *data.Title, categoryID *int64, genreIDs []int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	query := `
		INSERT INTO titles (name, year, description, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version`
	args := []interface{}{title.Name, title.Year, title.Description, categoryID}
	err = tx.QueryRowContext(ctx, query, args...).Scan(
		&title.ID,
		&title.CreatedAt,
		&title.Version,
	)
	if err != nil {
		return err
	}
	for _, genreID := range genreIDs {
		_, err = tx.ExecContext(ctx, `INSERT INTO titles_genres (title_id, genre_id) VALUES ($1, $2)`, title.ID, genreID)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetTitle retrieves a title record by its ID, together with its category,
// genres and the average review score. Rating is nil until the title has at
// least one review.
func (r *repository) GetTitle(titleID int64) (*data.Title, error) {
	query := `
		SELECT t.id, t.created_at, t.name, t.year, t.description, t.version,
			c.id, c.name, c.slug,
			(SELECT AVG(score)::float8 FROM reviews WHERE title_id = t.id)
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1`
	var title data.Title
	var categoryID sql.NullInt64
	var categoryName, categorySlug sql.NullString
	var rating sql.NullFloat64
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, titleID).Scan(
		&title.ID,
		&title.CreatedAt,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.Version,
		&categoryID,
		&categoryName,
		&categorySlug,
		&rating,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if categoryID.Valid {
		title.Category = &data.Category{
			ID:   categoryID.Int64,
			Name: categoryName.String,
			Slug: categorySlug.String,
		}
	}
	if rating.Valid {
		title.Rating = &rating.Float64
	}
	genres, err := r.getAllGenresForTitle(ctx, title.ID)
	if err != nil {
		return nil, err
	}
	title.Genres = genres
	return &title, nil
}

// GetAllTitles retrieves a paginated list of titles, optionally narrowed by
// name, year, category slug and genre slug.
func (r *repository) GetAllTitles(name string, year int, categorySlug, genreSlug string, filters data.Filters) ([]*data.Title, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), t.id, t.created_at, t.name, t.year, t.description, t.version,
			c.id, c.name, c.slug,
			(SELECT AVG(score)::float8 FROM reviews WHERE title_id = t.id)
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE (t.name ILIKE '%%' || $1 || '%%' OR $1 = '')
		AND (t.year = $2 OR $2 = 0)
		AND (c.slug = $3 OR $3 = '')
		AND ($4 = '' OR EXISTS (
			SELECT 1 FROM titles_genres tg
			JOIN genres g ON g.id = tg.genre_id
			WHERE tg.title_id = t.id AND g.slug = $4))
		ORDER BY t.%s %s, t.id ASC
		LIMIT $5 OFFSET $6`, filters.SortColumn(), filters.SortDirection())
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	args := []interface{}{name, year, categorySlug, genreSlug, filters.Limit(), filters.Offset()}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	titles := []*data.Title{}
	for rows.Next() {
		var title data.Title
		var categoryID sql.NullInt64
		var categoryName, catSlug sql.NullString
		var rating sql.NullFloat64
		err := rows.Scan(
			&totalRecords,
			&title.ID,
			&title.CreatedAt,
			&title.Name,
			&title.Year,
			&title.Description,
			&title.Version,
			&categoryID,
			&categoryName,
			&catSlug,
			&rating,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		if categoryID.Valid {
			title.Category = &data.Category{
				ID:   categoryID.Int64,
				Name: categoryName.String,
				Slug: catSlug.String,
			}
		}
		if rating.Valid {
			title.Rating = &rating.Float64
		}
		titles = append(titles, &title)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	for _, title := range titles {
		genres, err := r.getAllGenresForTitle(ctx, title.ID)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		title.Genres = genres
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return titles, metadata, nil
}

// getAllGenresForTitle retrieves the genres linked to a title.
func (r *repository) getAllGenresForTitle(ctx context.Context, titleID int64) ([]data.Genre, error) {
	query := `
		SELECT g.id, g.name, g.slug
		FROM genres g
		JOIN titles_genres tg ON tg.genre_id = g.id
		WHERE tg.title_id = $1
		ORDER BY g.slug ASC`
	rows, err := r.db.QueryContext(ctx, query, titleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	genres := []data.Genre{}
	for rows.Next() {
		var genre data.Genre
		err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug)
		if err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}
	return genres, rows.Err()
}

// UpdateTitle updates a title record. When genreIDs is non-nil the genre
// links are replaced wholesale. Uses optimistic locking to prevent race
// conditions during concurrent edits.
func (r *repository) UpdateTitle(title *data.Title, categoryID *int64, genreIDs []int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	query := `
		UPDATE titles
		SET name = $1, year = $2, description = $3, category_id = $4, version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version`
	args := []interface{}{title.Name, title.Year, title.Description, categoryID, title.ID, title.Version}
	err = tx.QueryRowContext(ctx, query, args...).Scan(&title.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	if genreIDs != nil {
		_, err = tx.ExecContext(ctx, `DELETE FROM titles_genres WHERE title_id = $1`, title.ID)
		if err != nil {
			return err
		}
		for _, genreID := range genreIDs {
			_, err = tx.ExecContext(ctx, `INSERT INTO titles_genres (title_id, genre_id) VALUES ($1, $2)`, title.ID, genreID)
			if err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// DeleteTitle deletes a title record by its ID. Reviews, comments and genre
// links go with it.
func (r *repository) DeleteTitle(titleID int64) error {
	query := `
		DELETE FROM titles
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, titleID)
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
