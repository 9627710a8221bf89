package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("wraps and preserves the chain", func(t *testing.T) {
		err := Wrap(ErrConflict, "secret already exists")
		assert.True(t, Is(err, ErrConflict))
		assert.Equal(t, "secret already exists: conflict", err.Error())
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "context"))
	})

	t.Run("double wrap keeps the sentinel", func(t *testing.T) {
		err := Wrap(Wrap(ErrCryptoIntegrity, "aad mismatch"), "fetch secret")
		assert.True(t, Is(err, ErrCryptoIntegrity))
	})
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrConflict, ErrInvalidInput,
		ErrUnauthorized, ErrForbidden, ErrCryptoIntegrity, ErrStore,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "%v should not match %v", a, b)
		}
	}
}
