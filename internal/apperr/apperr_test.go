package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain error", cause, KindUnknown},
		{"connection", Wrap(ErrConnection, cause), KindConnection},
		{"constraint wrapped twice", fmt.Errorf("insert book: %w", Wrap(ErrConstraint, cause)), KindConstraint},
		{"not found", ErrNotFound, KindNotFound},
		{"denied over connection", Wrap(ErrDenied, Wrap(ErrConnection, cause)), KindDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ErrConnection, cause)

	assert.ErrorIs(t, err, ErrConnection)
	assert.ErrorIs(t, err, cause)
	assert.Same(t, ErrNotFound, Wrap(ErrNotFound, nil))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "constraint", KindConstraint.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
