package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeUTF8(t *testing.T) {
	assert.Equal(t, "hello", sanitizeUTF8("hello"))
	assert.Equal(t, "ab", sanitizeUTF8("a\xffb"))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "മല", truncateRunes("മലയാളം", 2))
	assert.Equal(t, "abc", truncateRunes("abc", 10))
	assert.Equal(t, "abc", truncateRunes("abc", 0))
}

func TestRetry(t *testing.T) {
	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), 3, time.Millisecond, func(int) error {
			calls++
			if calls < 3 {
				return errors.New("boom")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), 2, time.Millisecond, func(attempt int) error {
			calls++
			return errors.New("boom")
		})
		assert.EqualError(t, err, "boom")
		assert.Equal(t, 2, calls)
	})

	t.Run("stops when context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := retry(ctx, 5, time.Hour, func(int) error { return errors.New("boom") })
		assert.ErrorIs(t, err, context.Canceled)
	})
}
