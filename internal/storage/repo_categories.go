package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/denis-severinov/expenso-go/internal/domain"
	"github.com/denis-severinov/expenso-go/internal/stream"
)

// CategoriesRepo persists categories and publishes the full ordered collection
// on a replay-latest stream after every successful mutation.
type CategoriesRepo struct {
	db     *sql.DB
	source *stream.Source[[]domain.Category]
}

func NewCategoriesRepo(ctx context.Context, db *sql.DB) (*CategoriesRepo, error) {
	r := &CategoriesRepo{db: db, source: stream.NewSource[[]domain.Category]()}
	if err := r.refresh(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// AllCategories is the repository's push stream. New subscribers receive the
// latest snapshot immediately.
func (r *CategoriesRepo) AllCategories() *stream.Source[[]domain.Category] {
	return r.source
}

func (r *CategoriesRepo) Add(ctx context.Context, c domain.Category) (domain.Category, error) {
	if strings.TrimSpace(c.Name) == "" {
		return domain.Category{}, fmt.Errorf("category name is empty")
	}
	if c.ID == "" {
		c.ID = domain.NewID()
	}
	createdAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := r.db.ExecContext(
		ctx,
		`INSERT INTO categories (id, name, created_at) VALUES (?, ?, ?)`,
		c.ID, c.Name, createdAt,
	); err != nil {
		return domain.Category{}, fmt.Errorf("insert category %q: %w", c.Name, err)
	}
	if err := r.refresh(ctx); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (r *CategoriesRepo) Update(ctx context.Context, c domain.Category) error {
	if _, err := r.db.ExecContext(
		ctx,
		`UPDATE categories SET name = ? WHERE id = ?`,
		c.Name, c.ID,
	); err != nil {
		return fmt.Errorf("update category %q: %w", c.ID, err)
	}
	return r.refresh(ctx)
}

// Delete removes a category. Deleting an already-absent row is a no-op.
func (r *CategoriesRepo) Delete(ctx context.Context, c domain.Category) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, c.ID); err != nil {
		return fmt.Errorf("delete category %q: %w", c.ID, err)
	}
	return r.refresh(ctx)
}

func (r *CategoriesRepo) refresh(ctx context.Context) error {
	rows, err := r.db.QueryContext(
		ctx,
		// rowid keeps insertion order even when created_at collides at
		// second precision.
		`SELECT id, name FROM categories ORDER BY rowid`,
	)
	if err != nil {
		return fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate categories: %w", err)
	}

	r.source.Publish(out)
	return nil
}
