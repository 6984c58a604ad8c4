package apperror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-inventory-audit/pkg/apperror"
)

var errDuplicate = apperror.Conflict("DUPLICATE_EMAIL", "email already registered")

func TestErrorIsMatchesWrappedCopies(t *testing.T) {
	wrapped := errDuplicate.Wrap(errors.New("unique violation"))

	assert.ErrorIs(t, wrapped, errDuplicate)
	assert.ErrorIs(t, fmt.Errorf("register: %w", wrapped), errDuplicate)
	assert.NotErrorIs(t, wrapped, apperror.NotFound("DUPLICATE_EMAIL", "other kind"))
	assert.Equal(t, "unique violation", errors.Unwrap(wrapped).Error())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperror.Kind
	}{
		{name: "conflict", err: errDuplicate, want: apperror.KindConflict},
		{name: "wrapped not found", err: fmt.Errorf("get: %w", apperror.NotFound("X", "x")), want: apperror.KindNotFound},
		{name: "plain error", err: errors.New("boom"), want: apperror.KindInternal},
		{name: "internal", err: apperror.Internal(errors.New("db down")), want: apperror.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperror.KindOf(tt.err))
		})
	}
}

func TestInternalHidesParentFromMessage(t *testing.T) {
	err := apperror.Internal(errors.New("connection refused"))

	assert.Equal(t, "an unknown error occurred", err.Msg())
	assert.Contains(t, err.Error(), "connection refused")
}
