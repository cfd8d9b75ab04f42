package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/internal/provision"
)

func TestRun_SQLiteUpAndDown(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(dir, "lms.db"))
	t.Setenv("LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-create-db"}, &out, &errOut))
	assert.Equal(t, "Migrations applied successfully\n", out.String())

	out.Reset()
	require.NoError(t, run(context.Background(), []string{"-command", provision.CommandDown}, &out, &errOut))
	assert.Equal(t, "Migrations rolled back successfully\n", out.String())
}

func TestRun_UnknownCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(dir, "lms.db"))

	var out, errOut bytes.Buffer
	err := run(context.Background(), []string{"-command", "create"}, &out, &errOut)
	assert.ErrorIs(t, err, provision.ErrUnknownCommand)
}

func TestRun_MissingPassword(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_PASSWORD", "")

	var out, errOut bytes.Buffer
	err := run(context.Background(), nil, &out, &errOut)
	assert.ErrorContains(t, err, "DB_PASSWORD")
}
