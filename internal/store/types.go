package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// parsePrice reads a stored decimal string back into an exact value.
func parsePrice(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid stored price %q: %w", raw, err)
	}
	return d, nil
}

// User is a portal account. Role is always in the authoritative
// vocabulary (ADMIN or SUPPORT).
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Brand is a product manufacturer.
type Brand struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category groups products; a product belongs to one or more.
type Category struct {
	ID          string
	Name        string
	Description string
}

// Product is one catalog item. Price carries exact decimal precision
// end to end; conversion to a float happens only at serialization.
type Product struct {
	ID          string
	Name        string
	Description string
	SKU         string
	Price       decimal.Decimal
	Stock       int
	Status      string
	BrandID     string
	Brand       *Brand
	Categories  []*Category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductPatch is a partial update; nil fields are left unchanged.
// CategoryIDs non-nil replaces the full category set.
type ProductPatch struct {
	Name        *string
	Description *string
	SKU         *string
	Price       *decimal.Decimal
	Stock       *int
	Status      *string
	BrandID     *string
	CategoryIDs []string
}

// QuerySpec is a fully-validated product listing query. Page and
// PerPage are 1-based and already defaulted by the caller. Category
// matches the linked category name, case-insensitively.
type QuerySpec struct {
	Search    string
	Category  string
	Status    string
	BrandID   string
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
}

// PageResult is one page of products plus the counts needed to build
// pagination metadata.
type PageResult struct {
	Products []*Product
	Page     int
	PerPage  int
	Total    int
}

// TotalPages is ceil(Total/PerPage), recomputed from the live total.
func (r *PageResult) TotalPages() int {
	return (r.Total + r.PerPage - 1) / r.PerPage
}

// HasPrev reports whether a previous page exists.
func (r *PageResult) HasPrev() bool {
	return r.Page > 1
}

// HasNext reports whether a further page exists.
func (r *PageResult) HasNext() bool {
	return r.Page < r.TotalPages()
}
