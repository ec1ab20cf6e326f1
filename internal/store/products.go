package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// sortColumns maps wire sort fields to ORDER BY columns. Anything not
// in this map never reaches the query.
var sortColumns = map[string]string{
	"name":      "p.name",
	"price":     "CAST(p.price AS REAL)",
	"stock":     "p.stock",
	"createdAt": "p.created_at",
}

// CreateProduct inserts a product and its category links in one
// transaction. Returns ErrDuplicate on a SKU collision and
// ErrBadReference when the brand or a category does not exist.
func (s *SQLiteStore) CreateProduct(ctx context.Context, p *Product, categoryIDs []string) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO products (id, name, description, sku, price, stock, status, brand_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.SKU, p.Price.String(), p.Stock, p.Status, p.BrandID, now, now)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrDuplicate
		case isForeignKeyViolation(err):
			return ErrBadReference
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	if err := replaceCategories(ctx, tx, p.ID, categoryIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return s.hydrate(ctx, p)
}

func replaceCategories(ctx context.Context, tx *sql.Tx, productID string, categoryIDs []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM product_categories WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("failed to clear categories: %w", err)
	}
	for _, cid := range uniqueStrings(categoryIDs) {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_categories (product_id, category_id) VALUES (?, ?)`, productID, cid)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrBadReference
			}
			return fmt.Errorf("failed to link category: %w", err)
		}
	}
	return nil
}

// GetProduct returns one product with its brand and categories, or
// ErrNotFound.
func (s *SQLiteStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	p := &Product{}
	var price string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, sku, price, stock, status, brand_id, created_at, updated_at
		 FROM products WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.SKU, &price, &p.Stock, &p.Status, &p.BrandID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if p.Price, err = parsePrice(price); err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct applies a partial update and returns the updated
// record. Returns ErrNotFound, ErrDuplicate or ErrBadReference like
// CreateProduct.
func (s *SQLiteStore) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	add := func(col string, val any) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.SKU != nil {
		add("sku", *patch.SKU)
	}
	if patch.Price != nil {
		add("price", patch.Price.String())
	}
	if patch.Stock != nil {
		add("stock", *patch.Stock)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.BrandID != nil {
		add("brand_id", *patch.BrandID)
	}
	args = append(args, id)

	res, err := tx.ExecContext(ctx,
		`UPDATE products SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, ErrDuplicate
		case isForeignKeyViolation(err):
			return nil, ErrBadReference
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	if patch.CategoryIDs != nil {
		if err := replaceCategories(ctx, tx, id, patch.CategoryIDs); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a product; category links cascade. Returns
// ErrNotFound if the ID does not exist.
func (s *SQLiteStore) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListProducts runs a filtered, sorted, paginated catalog query. The
// count and page queries share one predicate so the pagination
// metadata always reflects the filtered set; they run concurrently.
func (s *SQLiteStore) ListProducts(ctx context.Context, q QuerySpec) (*PageResult, error) {
	where, args := buildPredicate(q)

	orderCol, ok := sortColumns[q.SortBy]
	if !ok {
		orderCol = sortColumns["createdAt"]
	}
	direction := "ASC"
	if strings.EqualFold(q.SortOrder, "desc") {
		direction = "DESC"
	}

	result := &PageResult{Page: q.Page, PerPage: q.PerPage}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.QueryRowContext(gctx,
			`SELECT COUNT(*) FROM products p JOIN brands b ON b.id = p.brand_id`+where, args...).
			Scan(&result.Total)
	})
	g.Go(func() error {
		query := `SELECT p.id, p.name, p.description, p.sku, p.price, p.stock, p.status, p.brand_id,
			p.created_at, p.updated_at, b.name
			FROM products p JOIN brands b ON b.id = p.brand_id` + where +
			` ORDER BY ` + orderCol + ` ` + direction + `, p.id ASC LIMIT ? OFFSET ?`
		pageArgs := append(append([]any{}, args...), q.PerPage, (q.Page-1)*q.PerPage)

		rows, err := s.db.QueryContext(gctx, query, pageArgs...)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			p := &Product{Brand: &Brand{}}
			var price string
			if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.SKU, &price, &p.Stock, &p.Status,
				&p.BrandID, &p.CreatedAt, &p.UpdatedAt, &p.Brand.Name); err != nil {
				return fmt.Errorf("failed to scan product: %w", err)
			}
			p.Brand.ID = p.BrandID
			if p.Price, err = parsePrice(price); err != nil {
				return err
			}
			result.Products = append(result.Products, p)
		}
		return rows.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if result.Products == nil {
		result.Products = make([]*Product, 0)
	}
	for _, p := range result.Products {
		categories, err := s.productCategories(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Categories = categories
	}
	return result, nil
}

// buildPredicate turns the filters into a WHERE clause shared by the
// count and page queries. Search is case-insensitive across the
// product name, SKU and brand name.
func buildPredicate(q QuerySpec) (string, []any) {
	var conds []string
	var args []any

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		conds = append(conds,
			`(LOWER(p.name) LIKE ? OR LOWER(p.sku) LIKE ? OR LOWER(b.name) LIKE ?)`)
		args = append(args, pattern, pattern, pattern)
	}
	if q.Status != "" {
		conds = append(conds, `p.status = ?`)
		args = append(args, q.Status)
	}
	if q.BrandID != "" {
		conds = append(conds, `p.brand_id = ?`)
		args = append(args, q.BrandID)
	}
	if q.Category != "" {
		conds = append(conds,
			`EXISTS (SELECT 1 FROM product_categories pc
				JOIN categories c ON c.id = pc.category_id
				WHERE pc.product_id = p.id AND LOWER(c.name) = LOWER(?))`)
		args = append(args, q.Category)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *SQLiteStore) productCategories(ctx context.Context, productID string) ([]*Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.description
		 FROM categories c
		 JOIN product_categories pc ON pc.category_id = c.id
		 WHERE pc.product_id = ?
		 ORDER BY c.name`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product categories: %w", err)
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

// hydrate fills the brand and category associations on a product.
func (s *SQLiteStore) hydrate(ctx context.Context, p *Product) error {
	brand, err := s.GetBrand(ctx, p.BrandID)
	if err != nil {
		return err
	}
	p.Brand = brand
	categories, err := s.productCategories(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Categories = categories
	return nil
}
