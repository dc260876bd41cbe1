package catalog

import "errors"

var (
	// ErrCategoryNotFound is returned when a category ID does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryExists is returned when another category already uses the name.
	ErrCategoryExists = errors.New("category already exists")

	// ErrMissingFields is returned when a new category lacks a name or label.
	ErrMissingFields = errors.New("name and label are required")
)
