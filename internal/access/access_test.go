package access

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lms/internal/apperr"
	"lms/internal/config"
	"lms/internal/testutil"
)

func writeAllowList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "librarians.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAllowList_Authorize(t *testing.T) {
	ctx := context.Background()
	a := NewAllowList(writeAllowList(t, "70552\n\n  70895  \n70704\n"))

	p, err := a.Authorize(ctx, "70895")
	require.NoError(t, err)
	assert.Equal(t, Principal{ID: "70895", Name: "Librarian 70895"}, p)

	p, err = a.Authorize(ctx, " 70552 ")
	require.NoError(t, err)
	assert.Equal(t, "70552", p.ID)

	for _, id := range []string{"00000", "", "7089", "708955"} {
		_, err := a.Authorize(ctx, id)
		assert.Equal(t, apperr.KindDenied, apperr.KindOf(err), id)
	}
}

func TestAllowList_UnreadableFileDenies(t *testing.T) {
	a := NewAllowList(filepath.Join(t.TempDir(), "missing.txt"))

	_, err := a.Authorize(context.Background(), "70895")
	assert.ErrorIs(t, err, apperr.ErrDenied)
}

func TestAllowList_ReadsFileOnEveryCall(t *testing.T) {
	ctx := context.Background()
	path := writeAllowList(t, "1\n")
	a := NewAllowList(path)

	_, err := a.Authorize(ctx, "2")
	require.ErrorIs(t, err, apperr.ErrDenied)

	require.NoError(t, os.WriteFile(path, []byte("1\n2\n"), 0o644))
	_, err = a.Authorize(ctx, "2")
	assert.NoError(t, err)
}

func TestTable_Authorize(t *testing.T) {
	ctx := context.Background()
	a := NewTable(testutil.SeededSQLiteGateway(t))

	p, err := a.Authorize(ctx, "70895")
	require.NoError(t, err)
	assert.Equal(t, Principal{ID: "70895", Name: "Alice Johnson"}, p)

	_, err = a.Authorize(ctx, "00000")
	assert.Equal(t, apperr.KindDenied, apperr.KindOf(err))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = a.Authorize(ctx, "abc")
	assert.Equal(t, apperr.KindDenied, apperr.KindOf(err))
}

func TestTable_ConnectionLossDenies(t *testing.T) {
	g := testutil.SeededSQLiteGateway(t)
	a := NewTable(g)
	g.Close()

	_, err := a.Authorize(context.Background(), "70895")
	assert.Equal(t, apperr.KindDenied, apperr.KindOf(err))
	assert.ErrorIs(t, err, apperr.ErrConnection)
}

type mockAuthorizer struct {
	mock.Mock
}

func (m *mockAuthorizer) Authorize(ctx context.Context, id string) (Principal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Principal), args.Error(1)
}

func TestThrottle_DeniesOverLimit(t *testing.T) {
	next := new(mockAuthorizer)
	next.On("Authorize", mock.Anything, "1").Return(Principal{ID: "1", Name: "One"}, nil).Twice()
	a := NewThrottle(next, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := a.Authorize(ctx, "1")
		require.NoError(t, err)
	}

	_, err := a.Authorize(ctx, "1")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.Equal(t, apperr.KindDenied, apperr.KindOf(err))
	next.AssertExpectations(t)
}

func TestNew_SelectsBackend(t *testing.T) {
	g := testutil.SeededSQLiteGateway(t)

	a, err := New(config.AccessConfig{Backend: config.AccessTable}, g)
	require.NoError(t, err)
	assert.IsType(t, &Table{}, a)

	a, err = New(config.AccessConfig{Backend: config.AccessFile, AllowListPath: "x", AttemptsPerMinute: 3}, g)
	require.NoError(t, err)
	assert.IsType(t, &Throttle{}, a)

	_, err = New(config.AccessConfig{Backend: "ldap"}, g)
	assert.ErrorIs(t, err, config.ErrUnknownBackend)
}
