package catalog

import "context"

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=catalog

// Repository is record-level access to the books table. Errors carry an
// apperr kind: connection, constraint or not-found.
type Repository interface {
	// Insert stores all fields of b. A duplicate ISBN is a constraint error.
	Insert(ctx context.Context, b Book) error
	// DeleteByISBN removes the record, or returns a not-found error when there
	// is nothing to remove.
	DeleteByISBN(ctx context.Context, isbn string) error
	// Search never returns a nil slice on success.
	Search(ctx context.Context, mode SearchMode, value string) ([]Book, error)
	// ListAll returns every record ordered by title. It returns nil and an
	// error when the store cannot be read, and an empty slice for an empty
	// catalog.
	ListAll(ctx context.Context) ([]Book, error)
	// Count returns 0 together with any error.
	Count(ctx context.Context) (int, error)
}
