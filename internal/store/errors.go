package store

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint is violated,
	// such as registering an email twice or reusing a SKU.
	ErrDuplicate = errors.New("record already exists")

	// ErrBadReference is returned when a product names a brand or
	// category that does not exist.
	ErrBadReference = errors.New("referenced record not found")
)
