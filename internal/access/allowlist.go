package access

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"lms/internal/apperr"
)

// AllowList authorises identifiers listed one per line in a text file. The
// file is read on every call so edits apply without a restart.
type AllowList struct {
	path string
}

func NewAllowList(path string) *AllowList {
	return &AllowList{path: path}
}

func (a *AllowList) Authorize(_ context.Context, id string) (Principal, error) {
	id = strings.TrimSpace(id)

	ids, err := a.load()
	if err != nil {
		return Principal{}, deny(id, err)
	}
	if id == "" {
		return Principal{}, deny(id, apperr.ErrNotFound)
	}
	if _, ok := ids[id]; !ok {
		return Principal{}, deny(id, apperr.ErrNotFound)
	}
	return Principal{ID: id, Name: "Librarian " + id}, nil
}

func (a *AllowList) load() (map[string]struct{}, error) {
	f, err := os.Open(a.path)
	if err != nil {
		return nil, fmt.Errorf("open allow-list: %w", err)
	}
	defer f.Close()

	ids := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		ids[line] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read allow-list: %w", err)
	}
	return ids, nil
}
