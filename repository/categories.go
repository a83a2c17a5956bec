package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anaeze/critica/data"
)

type categories interface {
	CreateCategory(category *data.Category) error
	GetCategoryBySlug(slug string) (*data.Category, error)
	GetAllCategories(search string, filters data.Filters) ([]*data.Category, data.Metadata, error)
	DeleteCategoryBySlug(slug string) error
}

// CreateCategory inserts a new category record.
func (r *repository) CreateCategory(category *data.Category) error {
	query := `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, category.Name, category.Slug).Scan(&category.ID)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "categories_slug_key"`:
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// GetCategoryBySlug retrieves a category record by its slug.
func (r *repository) GetCategoryBySlug(slug string) (*data.Category, error) {
	query := `
		SELECT id, name, slug
		FROM categories
		WHERE slug = $1`
	var category data.Category
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &category, nil
}

// GetAllCategories retrieves a paginated list of categories, optionally
// narrowed by a case-insensitive search on the name.
func (r *repository) GetAllCategories(search string, filters data.Filters) ([]*data.Category, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), id, name, slug
		FROM categories
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
	cats := []*data.Category{}
	for rows.Next() {
		var category data.Category
		err := rows.Scan(
			&totalRecords,
			&category.ID,
			&category.Name,
			&category.Slug,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		cats = append(cats, &category)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return cats, metadata, nil
}

// DeleteCategoryBySlug deletes a category record by its slug. Titles in the
// category stay in the catalog with their category unset.
func (r *repository) DeleteCategoryBySlug(slug string) error {
	query := `
		DELETE FROM categories
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
