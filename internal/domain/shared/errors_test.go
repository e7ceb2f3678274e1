package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches the sentinel itself", func(t *testing.T) {
		assert.ErrorIs(t, ErrNotFound, ErrNotFound)
	})

	t.Run("matches another error with the same code", func(t *testing.T) {
		err := NewDomainError("NOT_FOUND", "Sale order not found")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("load partner: %w", ErrNotFound)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("distinct codes do not match", func(t *testing.T) {
		assert.NotErrorIs(t, ErrInvalidToken, ErrNotFound)
	})

	t.Run("plain errors do not match", func(t *testing.T) {
		assert.NotErrorIs(t, errors.New("not found"), ErrNotFound)
	})
}

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError("INVALID_STATE", "Request already approved")
	assert.Equal(t, "Request already approved", err.Error())
	assert.Equal(t, "INVALID_STATE", err.Code)
}
