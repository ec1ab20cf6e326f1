package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateBrand inserts a brand. Used by seeding and fixtures.
func (s *SQLiteStore) CreateBrand(ctx context.Context, b *Brand) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO brands (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.Description, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create brand: %w", err)
	}
	return nil
}

// ListBrands returns all brands ordered by name.
func (s *SQLiteStore) ListBrands(ctx context.Context) ([]*Brand, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM brands ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	brands := make([]*Brand, 0)
	for rows.Next() {
		b := &Brand{}
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

// GetBrand returns one brand by ID, or ErrNotFound.
func (s *SQLiteStore) GetBrand(ctx context.Context, id string) (*Brand, error) {
	b := &Brand{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM brands WHERE id = ?`, id).
		Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	return b, nil
}

// CreateCategory inserts a category. Used by seeding and fixtures.
func (s *SQLiteStore) CreateCategory(ctx context.Context, c *Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, description) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// ListCategories returns all categories ordered by name.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategories returns the categories with the given IDs. Returns
// ErrBadReference if any ID does not exist.
func (s *SQLiteStore) GetCategories(ctx context.Context, ids []string) ([]*Category, error) {
	if len(ids) == 0 {
		return []*Category{}, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description FROM categories WHERE id IN (`+placeholders+`) ORDER BY name`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*Category, 0, len(ids))
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(categories) != len(uniqueStrings(ids)) {
		return nil, ErrBadReference
	}
	return categories, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
