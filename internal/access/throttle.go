package access

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"
)

var ErrTooManyAttempts = errors.New("too many authorization attempts")

// Throttle limits how often the wrapped Authorizer is consulted. Attempts
// over the limit are denied without reaching the backend.
type Throttle struct {
	next    Authorizer
	limiter *rate.Limiter
}

func NewThrottle(next Authorizer, perMinute int) *Throttle {
	return &Throttle{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

func (t *Throttle) Authorize(ctx context.Context, id string) (Principal, error) {
	if !t.limiter.Allow() {
		return Principal{}, deny(id, ErrTooManyAttempts)
	}
	return t.next.Authorize(ctx, id)
}
