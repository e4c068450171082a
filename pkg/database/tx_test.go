package database

import (
	"context"
	"errors"
	"testing"

	"theater-booking/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRetry(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	t.Run("succeeds after transient lock timeouts", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, log, func() error {
			calls++
			if calls < 3 {
				return ErrLockTimeout
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up with a lock timeout conflict", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 2, log, func() error {
			calls++
			return ErrLockTimeout
		})

		assert.Equal(t, 3, calls)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
		assert.Equal(t, apperror.CodeLockTimeout, apperror.CodeOf(err))
		assert.ErrorIs(t, err, ErrLockTimeout)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		calls := 0
		want := apperror.Conflict(apperror.CodeSeatAlreadyBooked, "Seat %d is already booked", 4)
		err := Retry(ctx, 5, log, func() error {
			calls++
			return want
		})

		assert.Equal(t, 1, calls)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, "Seat 4 is already booked", appErr.Message)
	})

	t.Run("zero retries runs once", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 0, log, func() error {
			calls++
			return errors.New("boom")
		})

		assert.EqualError(t, err, "boom")
		assert.Equal(t, 1, calls)
	})
}
