// Package schema defines the wire contracts crossing the portal trust
// boundary and validates payloads on both sides of it. Request
// validation is strict (reject with field errors); response validation
// is a contract check whose result the caller may choose to ignore.
package schema

// BackendUser is a user object as the backend API emits it. The role is
// in the authoritative vocabulary; dates are opaque ISO-8601 strings
// and are never re-parsed by the gateway.
type BackendUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// ExternalUser is the same user after role translation for clients.
type ExternalUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// LoginRequest is the credentials payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the backend's successful login payload.
type LoginResponse struct {
	AccessToken string      `json:"accessToken"`
	User        BackendUser `json:"user"`
}

// RegisterRequest creates a new portal user. Role is in the
// authoritative vocabulary, matching the backend contract.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// BrandRef is the embedded brand summary on a product.
type BrandRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryRef is an embedded category summary on a product.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Brand is a full brand record from the reference listing.
type Brand struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Category is a full category record from the reference listing.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Product statuses accepted across the boundary.
const (
	StatusActive       = "active"
	StatusInactive     = "inactive"
	StatusDiscontinued = "discontinued"
)

// BackendProduct is a catalog item as the backend API emits it. Price
// is a plain number on the wire; the backend keeps arbitrary precision
// internally and converts only when serializing.
type BackendProduct struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	SKU         string        `json:"sku"`
	Price       float64       `json:"price"`
	Stock       int           `json:"stock"`
	Status      string        `json:"status"`
	BrandID     string        `json:"brandId"`
	Brand       BrandRef      `json:"brand"`
	Categories  []CategoryRef `json:"categories"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}

// PaginationMeta describes one page of a listing.
type PaginationMeta struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasPrevPage bool `json:"hasPrevPage"`
	HasNextPage bool `json:"hasNextPage"`
}

// PaginatedProducts is the backend response for the product listing.
type PaginatedProducts struct {
	Data []BackendProduct `json:"data"`
	Meta PaginationMeta   `json:"meta"`
}

// Sort fields accepted for the product listing.
var ProductSortFields = []string{"name", "price", "stock", "createdAt"}

// ProductQuery is the parsed query string for the product listing.
// Zero-valued fields mean "absent"; defaults are applied by the
// backend, not here.
type ProductQuery struct {
	Search    string
	Category  string
	Status    string
	BrandID   string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// CreateProductRequest is the payload for product creation.
type CreateProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SKU         string   `json:"sku"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Status      string   `json:"status"`
	BrandID     string   `json:"brandId"`
	CategoryIDs []string `json:"categoryIds"`
}

// UpdateProductRequest is the partial-update payload; nil means "leave
// unchanged".
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	SKU         *string  `json:"sku,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Status      *string  `json:"status,omitempty"`
	BrandID     *string  `json:"brandId,omitempty"`
	CategoryIDs []string `json:"categoryIds,omitempty"`
}
