package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anaeze/critica/data"
)

type genres interface {
	CreateGenre(genre *data.Genre) error
	GetGenreBySlug(slug string) (*data.Genre, error)
	GetAllGenres(search string, filters data.Filters) ([]*data.Genre, data.Metadata, error)
	DeleteGenreBySlug(slug string) error
}

// CreateGenre inserts a new genre record.
func (r *repository) CreateGenre(genre *data.Genre) error {
	query := `
		INSERT INTO genres (name, slug)
		VALUES ($1, $2)
		RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, genre.Name, genre.Slug).Scan(&genre.ID)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "genres_slug_key"`:
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// GetGenreBySlug retrieves a genre record by its slug.
func (r *repository) GetGenreBySlug(slug string) (*data.Genre, error) {
	query := `
		SELECT id, name, slug
		FROM genres
		WHERE slug = $1`
	var genre data.Genre
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&genre.ID,
		&genre.Name,
		&genre.Slug,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &genre, nil
}

// GetAllGenres retrieves a paginated list of genres, optionally narrowed by a
// case-insensitive search on the name.
func (r *repository) GetAllGenres(search string, filters data.Filters) ([]*data.Genre, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), id, name, slug
		FROM genres
		WHERE (name ILIKE '%%' || $1 || '%%' OR $1 = '')
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`, filters.SortColumn(), filters.SortDirection())
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	args := []interface{}{search, filters.Limit(), filters.Offset()}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	gens := []*data.Genre{}
	for rows.Next() {
		var genre data.Genre
		err := rows.Scan(
			&totalRecords,
			&genre.ID,
			&genre.Name,
			&genre.Slug,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		gens = append(gens, &genre)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return gens, metadata, nil
}

// DeleteGenreBySlug deletes a genre record by its slug.
func (r *repository) DeleteGenreBySlug(slug string) error {
	query := `
		DELETE FROM genres
		WHERE slug = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, slug)
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
