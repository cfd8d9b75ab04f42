package provision

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"lms/internal/store"
)

// SampleLibrarians are the librarian accounts loaded by Seed.
var SampleLibrarians = []goqu.Record{
	{"id": 70552, "name": "Chloe Smith"},
	{"id": 70704, "name": "Ben Carter"},
	{"id": 70895, "name": "Alice Johnson"},
}

// SampleBooks are the catalog entries loaded by Seed.
var SampleBooks = []goqu.Record{
	{"isbn": int64(9780123456789), "title": "Python Programming", "author": "John Doe", "pub_year": 2023, "status": "Available"},
	{"isbn": int64(9780987654321), "title": "Database Systems", "author": "Jane Smith", "pub_year": 2022, "status": "Available"},
	{"isbn": int64(9781234567890), "title": "Web Development", "author": "Mike Johnson", "pub_year": 2024, "status": "Borrowed"},
}

type SeedResult struct {
	Librarians int64
	Books      int64
}

// Seed loads the sample librarians and books. Rows whose key already exists
// are skipped, so running it twice is harmless.
func Seed(ctx context.Context, g *store.Gateway) (SeedResult, error) {
	var res SeedResult

	n, err := insertIgnore(ctx, g, "librarians", SampleLibrarians)
	if err != nil {
		return res, fmt.Errorf("seed librarians: %w", err)
	}
	res.Librarians = n

	n, err = insertIgnore(ctx, g, "books", SampleBooks)
	if err != nil {
		return res, fmt.Errorf("seed books: %w", err)
	}
	res.Books = n

	g.Logger().Info("seed complete", "librarians", res.Librarians, "books", res.Books)
	return res, nil
}

func insertIgnore(ctx context.Context, g *store.Gateway, table string, rows []goqu.Record) (int64, error) {
	values := make([]any, len(rows))
	for i, r := range rows {
		values[i] = r
	}

	query, args, err := g.Builder().
		Insert(table).
		Rows(values...).
		OnConflict(goqu.DoNothing()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, err
	}

	ctx, cancel := g.WithTimeout(ctx)
	defer cancel()

	result, err := g.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, store.Classify(err)
	}
	return result.RowsAffected()
}
