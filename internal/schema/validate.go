package schema

import (
	"fmt"
	"net/mail"
	"strings"
)

// FieldError is one validation failure, attributable to a field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const (
	minPasswordLen = 6
	maxNameLen     = 100
	maxSKULen      = 50
)

func validEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func validStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusDiscontinued:
		return true
	}
	return false
}

// Validate checks the login payload.
func (r LoginRequest) Validate() []FieldError {
	var errs []FieldError
	if !validEmail(r.Email) {
		errs = append(errs, FieldError{"email", "must be a valid email address"})
	}
	if len(r.Password) < minPasswordLen {
		errs = append(errs, FieldError{"password", fmt.Sprintf("must be at least %d characters", minPasswordLen)})
	}
	return errs
}

// Validate checks the registration payload. The role must already be in
// the authoritative vocabulary; translation happens before this point.
func (r RegisterRequest) Validate() []FieldError {
	var errs []FieldError
	if !validEmail(r.Email) {
		errs = append(errs, FieldError{"email", "must be a valid email address"})
	}
	if len(strings.TrimSpace(r.Name)) < 2 {
		errs = append(errs, FieldError{"name", "must be at least 2 characters"})
	}
	if len(r.Password) < minPasswordLen {
		errs = append(errs, FieldError{"password", fmt.Sprintf("must be at least %d characters", minPasswordLen)})
	}
	switch strings.ToUpper(r.Role) {
	case "ADMIN", "SUPPORT":
	default:
		errs = append(errs, FieldError{"role", "must be one of: ADMIN, SUPPORT"})
	}
	return errs
}

// Validate checks a product listing query. Absent fields (zero values)
// are fine; present fields must be in range. Unsupported sort fields
// are rejected here so the query composer never sees them.
func (q ProductQuery) Validate() []FieldError {
	var errs []FieldError
	if q.Status != "" && !validStatus(q.Status) {
		errs = append(errs, FieldError{"status", "must be one of: active, inactive, discontinued"})
	}
	if q.Page < 0 {
		errs = append(errs, FieldError{"page", "must be a positive integer"})
	}
	if q.Limit < 0 {
		errs = append(errs, FieldError{"limit", "must be a positive integer"})
	}
	if q.SortBy != "" {
		ok := false
		for _, f := range ProductSortFields {
			if q.SortBy == f {
				ok = true
				break
			}
		}
		if !ok {
			errs = append(errs, FieldError{"sortBy", "must be one of: name, price, stock, createdAt"})
		}
	}
	if q.SortOrder != "" && q.SortOrder != "asc" && q.SortOrder != "desc" {
		errs = append(errs, FieldError{"sortOrder", "must be asc or desc"})
	}
	return errs
}

// Validate checks the product creation payload.
func (r CreateProductRequest) Validate() []FieldError {
	var errs []FieldError
	name := strings.TrimSpace(r.Name)
	if name == "" {
		errs = append(errs, FieldError{"name", "is required"})
	} else if len(name) > maxNameLen {
		errs = append(errs, FieldError{"name", fmt.Sprintf("must be at most %d characters", maxNameLen)})
	}
	if strings.TrimSpace(r.Description) == "" {
		errs = append(errs, FieldError{"description", "is required"})
	}
	sku := strings.TrimSpace(r.SKU)
	if sku == "" {
		errs = append(errs, FieldError{"sku", "is required"})
	} else if len(sku) > maxSKULen {
		errs = append(errs, FieldError{"sku", fmt.Sprintf("must be at most %d characters", maxSKULen)})
	}
	if r.Price <= 0 {
		errs = append(errs, FieldError{"price", "must be positive"})
	}
	if r.Stock < 0 {
		errs = append(errs, FieldError{"stock", "must not be negative"})
	}
	if !validStatus(r.Status) {
		errs = append(errs, FieldError{"status", "must be one of: active, inactive, discontinued"})
	}
	if strings.TrimSpace(r.BrandID) == "" {
		errs = append(errs, FieldError{"brandId", "is required"})
	}
	if len(r.CategoryIDs) == 0 {
		errs = append(errs, FieldError{"categoryIds", "at least one category is required"})
	}
	for i, id := range r.CategoryIDs {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, FieldError{fmt.Sprintf("categoryIds[%d]", i), "must not be empty"})
		}
	}
	return errs
}

// Validate checks the partial-update payload: only fields that are
// present are validated.
func (r UpdateProductRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name != nil {
		if name := strings.TrimSpace(*r.Name); name == "" {
			errs = append(errs, FieldError{"name", "must not be empty"})
		} else if len(name) > maxNameLen {
			errs = append(errs, FieldError{"name", fmt.Sprintf("must be at most %d characters", maxNameLen)})
		}
	}
	if r.Description != nil && strings.TrimSpace(*r.Description) == "" {
		errs = append(errs, FieldError{"description", "must not be empty"})
	}
	if r.SKU != nil {
		if sku := strings.TrimSpace(*r.SKU); sku == "" {
			errs = append(errs, FieldError{"sku", "must not be empty"})
		} else if len(sku) > maxSKULen {
			errs = append(errs, FieldError{"sku", fmt.Sprintf("must be at most %d characters", maxSKULen)})
		}
	}
	if r.Price != nil && *r.Price <= 0 {
		errs = append(errs, FieldError{"price", "must be positive"})
	}
	if r.Stock != nil && *r.Stock < 0 {
		errs = append(errs, FieldError{"stock", "must not be negative"})
	}
	if r.Status != nil && !validStatus(*r.Status) {
		errs = append(errs, FieldError{"status", "must be one of: active, inactive, discontinued"})
	}
	if r.BrandID != nil && strings.TrimSpace(*r.BrandID) == "" {
		errs = append(errs, FieldError{"brandId", "must not be empty"})
	}
	if r.CategoryIDs != nil && len(r.CategoryIDs) == 0 {
		errs = append(errs, FieldError{"categoryIds", "at least one category is required"})
	}
	return errs
}
