package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"lms/internal/apperr"
	"lms/internal/store"
)

const (
	booksTable = "books"

	logMsgQuery     = "catalog query"
	logMsgFailed    = "catalog query failed"
	logAttrOp       = "op"
	logAttrDuration = "duration_ms"
	logAttrRows     = "rows"
	logAttrError    = "error"
)

var bookColumns = []any{"title", "author", "isbn", "pub_year", "status", "due_date"}

// SQLRepo implements Repository on a store.Gateway. Every call takes its own
// connection from the pool and gives it back before returning.
type SQLRepo struct {
	g      *store.Gateway
	logger *slog.Logger
}

func NewSQLRepo(g *store.Gateway) *SQLRepo {
	return &SQLRepo{g: g, logger: g.Logger()}
}

func (r *SQLRepo) withConn(ctx context.Context, op string, fn func(ctx context.Context, conn *sqlx.Conn) (int, error)) error {
	ctx, cancel := r.g.WithTimeout(ctx)
	defer cancel()

	start := time.Now()
	conn, err := r.g.Conn(ctx)
	if err != nil {
		r.logger.Error(logMsgFailed, logAttrOp, op, logAttrError, err.Error())
		return err
	}
	defer conn.Close()

	rows, err := fn(ctx, conn)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		r.logger.Warn(logMsgFailed, logAttrOp, op, logAttrDuration, elapsed, logAttrError, err.Error())
		return err
	}
	r.logger.Debug(logMsgQuery, logAttrOp, op, logAttrDuration, elapsed, logAttrRows, rows)
	return nil
}

func (r *SQLRepo) Insert(ctx context.Context, b Book) error {
	isbn, err := parseISBN(b.ISBN)
	if err != nil {
		return apperr.Wrap(apperr.ErrConstraint, fmt.Errorf("isbn %q is not a number", b.ISBN))
	}

	if b.Status == "" {
		b.Status = StatusAvailable
	}
	status, err := b.Status.Value()
	if err != nil {
		return apperr.Wrap(apperr.ErrConstraint, err)
	}

	rec := goqu.Record{
		"isbn":     isbn,
		"title":    b.Title,
		"author":   b.Author,
		"pub_year": b.Year,
		"status":   status,
	}
	if b.DueDate != nil {
		rec["due_date"] = b.DueDate.Format(time.DateOnly)
	}

	query, args, err := r.g.Builder().Insert(booksTable).Rows(rec).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	return r.withConn(ctx, "insert", func(ctx context.Context, conn *sqlx.Conn) (int, error) {
		if _, err := conn.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert book %s: %w", b.ISBN, store.Classify(err))
		}
		return 1, nil
	})
}

func (r *SQLRepo) DeleteByISBN(ctx context.Context, isbn string) error {
	key, err := parseISBN(isbn)
	if err != nil {
		return fmt.Errorf("delete book %q: %w", isbn, apperr.ErrNotFound)
	}

	where := goqu.Ex{"isbn": key}
	countQuery, countArgs, err := r.g.Builder().From(booksTable).
		Select(goqu.COUNT(goqu.Star())).Where(where).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build lookup: %w", err)
	}
	deleteQuery, deleteArgs, err := r.g.Builder().Delete(booksTable).Where(where).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	return r.withConn(ctx, "delete", func(ctx context.Context, conn *sqlx.Conn) (int, error) {
		var n int
		if err := conn.GetContext(ctx, &n, countQuery, countArgs...); err != nil {
			return 0, fmt.Errorf("look up book %s: %w", isbn, store.Classify(err))
		}
		if n == 0 {
			return 0, fmt.Errorf("delete book %s: %w", isbn, apperr.ErrNotFound)
		}

		if _, err := conn.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
			return 0, fmt.Errorf("delete book %s: %w", isbn, store.Classify(err))
		}
		return n, nil
	})
}

func (r *SQLRepo) Search(ctx context.Context, mode SearchMode, value string) ([]Book, error) {
	ds := r.g.Builder().From(booksTable).Select(bookColumns...)

	switch mode {
	case SearchByTitle:
		ds = ds.Where(goqu.C("title").ILike("%" + value + "%"))
	case SearchByISBN:
		key, err := parseISBN(value)
		if err != nil {
			return []Book{}, nil
		}
		ds = ds.Where(goqu.Ex{"isbn": key})
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidSearchMode, mode)
	}

	return r.selectBooks(ctx, "search_"+mode.String(), ds.Order(goqu.C("title").Asc()))
}

func (r *SQLRepo) ListAll(ctx context.Context) ([]Book, error) {
	ds := r.g.Builder().From(booksTable).Select(bookColumns...).Order(goqu.C("title").Asc())
	return r.selectBooks(ctx, "list_all", ds)
}

func (r *SQLRepo) selectBooks(ctx context.Context, op string, ds *goqu.SelectDataset) ([]Book, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}

	var books []Book
	err = r.withConn(ctx, op, func(ctx context.Context, conn *sqlx.Conn) (int, error) {
		if err := conn.SelectContext(ctx, &books, query, args...); err != nil {
			return 0, fmt.Errorf("%s: %w", op, store.Classify(err))
		}
		return len(books), nil
	})
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

func (r *SQLRepo) Count(ctx context.Context) (int, error) {
	query, args, err := r.g.Builder().From(booksTable).Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int
	err = r.withConn(ctx, "count", func(ctx context.Context, conn *sqlx.Conn) (int, error) {
		if err := conn.GetContext(ctx, &n, query, args...); err != nil {
			return 0, fmt.Errorf("count books: %w", store.Classify(err))
		}
		return 1, nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func parseISBN(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
