// Package store provides SQLite persistence for the portal backend:
// users, brands, categories and the product catalog.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store defines the persistence operations the API layer depends on.
type Store interface {
	// User operations
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	UpdateUserRole(ctx context.Context, id, role string) error

	// Brand and category reference data
	ListBrands(ctx context.Context) ([]*Brand, error)
	GetBrand(ctx context.Context, id string) (*Brand, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	GetCategories(ctx context.Context, ids []string) ([]*Category, error)

	// Product operations
	CreateProduct(ctx context.Context, p *Product, categoryIDs []string) error
	GetProduct(ctx context.Context, id string) (*Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, q QuerySpec) (*PageResult, error)

	// Lifecycle
	Close() error
}

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an already-open database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Open opens (or creates) the SQLite database at path and initializes
// the schema. Use ":memory:" for tests.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// modernc.org/sqlite serializes access itself, but concurrent
	// writes on one connection avoid SQLITE_BUSY entirely.
	db.SetMaxOpenConns(1)
	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
