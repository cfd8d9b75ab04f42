package access

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"lms/internal/apperr"
	"lms/internal/store"
)

// Table authorises identifiers found in the librarians table.
type Table struct {
	g *store.Gateway
}

func NewTable(g *store.Gateway) *Table {
	return &Table{g: g}
}

func (t *Table) Authorize(ctx context.Context, id string) (Principal, error) {
	id = strings.TrimSpace(id)
	key, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return Principal{}, deny(id, apperr.ErrNotFound)
	}

	query, args, err := t.g.Builder().From("librarians").
		Select("name").
		Where(goqu.Ex{"id": key}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return Principal{}, deny(id, err)
	}

	ctx, cancel := t.g.WithTimeout(ctx)
	defer cancel()

	conn, err := t.g.Conn(ctx)
	if err != nil {
		return Principal{}, deny(id, err)
	}
	defer conn.Close()

	var name string
	if err := conn.GetContext(ctx, &name, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Principal{}, deny(id, apperr.ErrNotFound)
		}
		return Principal{}, deny(id, store.Classify(err))
	}
	return Principal{ID: id, Name: name}, nil
}
