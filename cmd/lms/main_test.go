package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/internal/catalog"
	"lms/internal/testutil"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// useSeededSQLite points the CLI at a fresh seeded SQLite file and runs the
// test from an empty directory so no stray lms.yaml or .env is picked up.
func useSeededSQLite(t *testing.T) {
	t.Helper()
	path := testutil.SeededSQLiteFile(t)
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", path)
	t.Setenv("ACCESS_BACKEND", "table")
	t.Setenv("LOG_LEVEL", "error")
}

func TestBooksList_JSON(t *testing.T) {
	useSeededSQLite(t)

	out, err := execute(t, "", "books", "list", "--json")
	require.NoError(t, err)

	var books []catalog.Book
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(out), &books))
	require.Len(t, books, 3)
	assert.Equal(t, "Database Systems", books[0].Title)
	assert.Equal(t, catalog.StatusBorrowed, books[2].Status)
}

func TestBooksList_Table(t *testing.T) {
	useSeededSQLite(t)

	out, err := execute(t, "", "books", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Library Books:")
	assert.Contains(t, out, "Python Programming")
}

func TestBooksSearch(t *testing.T) {
	useSeededSQLite(t)

	out, err := execute(t, "", "books", "search", "--json", "--by", "isbn", "9781234567890")
	require.NoError(t, err)

	var books []catalog.Book
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(out), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Web Development", books[0].Title)

	_, err = execute(t, "", "books", "search", "--by", "author", "x")
	assert.Error(t, err)
}

func TestBooksCount(t *testing.T) {
	useSeededSQLite(t)

	out, err := execute(t, "", "books", "count")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	out, err = execute(t, "", "books", "count", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"count": 3}`, out)
}

func TestRoot_RunsSession(t *testing.T) {
	useSeededSQLite(t)

	out, err := execute(t, "member\n1\nexit\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Member!")
	assert.Contains(t, out, "Web Development")
	assert.Contains(t, out, "Goodbye!")
}

func TestRoot_MissingPasswordFails(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_PASSWORD", "")

	_, err := execute(t, "", "books", "count")
	assert.ErrorContains(t, err, "DB_PASSWORD")
}

func TestInit_WritesConfigOnce(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := execute(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote lms.yaml")
	_, err = os.Stat(filepath.Join(dir, "lms.yaml"))
	require.NoError(t, err)

	out, err = execute(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "lms dev\n", out)
}

func TestRoot_RunsSessionWithStoreDown(t *testing.T) {
	dir := t.TempDir()
	allowList := filepath.Join(dir, "librarians.txt")
	require.NoError(t, os.WriteFile(allowList, []byte("70895\n"), 0o644))
	t.Chdir(dir)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(dir, "no", "such", "dir", "lms.db"))
	t.Setenv("ACCESS_BACKEND", "file")
	t.Setenv("ACCESS_ALLOWLIST", allowList)
	t.Setenv("LOG_LEVEL", "error")

	out, err := execute(t, "member\n1\nlibrarian\n70895\n1\nT\n1\nA\n2000\n5\nexit\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Member!")
	assert.Contains(t, out, "The catalog could not be loaded")
	assert.Contains(t, out, "Hello, Librarian 70895")
	assert.Contains(t, out, "Failed to add book.")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
}

func TestBooksCount_StoreDownFails(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(dir, "no", "such", "dir", "lms.db"))
	t.Setenv("LOG_LEVEL", "error")

	_, err := execute(t, "", "books", "count")
	assert.ErrorContains(t, err, "connect to catalog")
}
