package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/internal/apperr"
	"lms/internal/config"
)

func TestClassify_PostgresErrors(t *testing.T) {
	assert.Nil(t, Classify(nil))

	unique := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	assert.Equal(t, apperr.KindConstraint, apperr.KindOf(Classify(unique)))

	check := &pq.Error{Code: "23514"}
	assert.Equal(t, apperr.KindConstraint, apperr.KindOf(Classify(check)))

	undefinedTable := &pgconn.PgError{Code: "42P01"}
	assert.Equal(t, apperr.KindConnection, apperr.KindOf(Classify(undefinedTable)))

	plain := errors.New("broken pipe")
	classified := Classify(plain)
	assert.Equal(t, apperr.KindConnection, apperr.KindOf(classified))
	assert.ErrorIs(t, classified, plain)
}

func TestClassify_LeavesClassifiedErrors(t *testing.T) {
	err := apperr.Wrap(apperr.ErrConstraint, errors.New("dup"))
	assert.Same(t, err, Classify(err))
}

func TestClassify_SQLiteConstraint(t *testing.T) {
	g, err := Open(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "lms.db"),
	}, nil)
	require.NoError(t, err)
	defer g.Close()

	_, err = g.DB().Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = g.DB().Exec(`INSERT INTO t (id) VALUES (1)`)
	require.NoError(t, err)

	_, err = g.DB().Exec(`INSERT INTO t (id) VALUES (1)`)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConstraint, apperr.KindOf(Classify(err)))
}
