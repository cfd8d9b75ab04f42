package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"lms/internal/apperr"
)

// integrityClass is the SQLSTATE class of integrity constraint violations
// (23505 unique_violation, 23514 check_violation, ...).
const integrityClass = "23"

// Classify wraps a driver error in the apperr kind it belongs to. Integrity
// violations become apperr.ErrConstraint; anything else the store returns is
// treated as apperr.ErrConnection.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperr.ErrConnection), errors.Is(err, apperr.ErrConstraint):
		return err
	case isConstraintViolation(err):
		return apperr.Wrap(apperr.ErrConstraint, err)
	default:
		return apperr.Wrap(apperr.ErrConnection, err)
	}
}

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return len(pgErr.Code) == 5 && pgErr.Code[:2] == integrityClass
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code.Class()) == integrityClass
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}

	return false
}
