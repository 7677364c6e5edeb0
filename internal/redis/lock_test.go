package redisclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopLocker(t *testing.T) {
	locker := NewNoopLocker()

	t.Run("runs the function with the caller's context", func(t *testing.T) {
		type ctxKey struct{}
		ctx := context.WithValue(context.Background(), ctxKey{}, "v")

		ran := false
		err := locker.WithEntityDateLock(ctx, "staff", "alice", "2026-03-02", func(innerCtx context.Context) error {
			ran = true
			assert.Equal(t, "v", innerCtx.Value(ctxKey{}))
			return nil
		})
		require.NoError(t, err)
		assert.True(t, ran)
	})

	t.Run("propagates the function's error", func(t *testing.T) {
		sentinel := errors.New("boom")
		err := locker.WithEntityDateLock(context.Background(), "staff", "alice", "2026-03-02", func(context.Context) error {
			return sentinel
		})
		assert.ErrorIs(t, err, sentinel)
	})
}
