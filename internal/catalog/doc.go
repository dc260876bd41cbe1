// Package catalog manages the storefront's product categories.
//
// Categories are publicly listed and edited by staff. Names are unique
// regardless of case; an update leaves any field supplied blank unchanged.
//
// # Thread Safety
//
// SQLiteRepository is safe for concurrent use from multiple goroutines
// (SQLite WAL mode + connection pooling).
package catalog
