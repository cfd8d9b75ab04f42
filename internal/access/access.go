// Package access decides whether a presented librarian identifier may use
// the librarian menu. Every backend fails closed: when it cannot tell, the
// answer is a denial.
package access

import (
	"context"
	"fmt"

	"lms/internal/apperr"
	"lms/internal/config"
	"lms/internal/store"
)

// Principal is an authorised librarian.
type Principal struct {
	ID   string
	Name string
}

type Authorizer interface {
	// Authorize returns the principal bound to id, or an error wrapping
	// apperr.ErrDenied.
	Authorize(ctx context.Context, id string) (Principal, error)
}

// New builds the backend selected by cfg.Backend, throttled to
// cfg.AttemptsPerMinute attempts when that is positive.
func New(cfg config.AccessConfig, g *store.Gateway) (Authorizer, error) {
	var a Authorizer
	switch cfg.Backend {
	case config.AccessFile:
		a = NewAllowList(cfg.AllowListPath)
	case config.AccessTable:
		a = NewTable(g)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}

	if cfg.AttemptsPerMinute > 0 {
		a = NewThrottle(a, cfg.AttemptsPerMinute)
	}
	return a, nil
}

func deny(id string, cause error) error {
	return apperr.Wrap(apperr.ErrDenied, fmt.Errorf("librarian %q: %w", id, cause))
}
