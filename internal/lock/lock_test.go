package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotKey(t *testing.T) {
	assert.Equal(t, "meeting-slot:42:2024-07-01", SlotKey(42, "2024-07-01"))
}

func TestLocalLocker_ExclusiveUntilReleased(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, []string{"a", "b"}, time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, []string{"b", "c"}, time.Minute)
	assert.ErrorIs(t, err, ErrNotAcquired)

	// A failed acquire takes nothing
	other, err := l.Acquire(ctx, []string{"c"}, time.Minute)
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := l.Acquire(ctx, []string{"b", "c"}, time.Minute)
	require.NoError(t, err)
	again()
}

func TestLocalLocker_ExpiredKeysAreFree(t *testing.T) {
	l := NewLocalLocker()
	now := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	_, err := l.Acquire(context.Background(), []string{"a"}, time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)

	release, err := l.Acquire(context.Background(), []string{"a"}, time.Second)
	require.NoError(t, err)
	release()
}

func TestLocalLocker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalLocker().Acquire(ctx, []string{"a"}, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, normalizeKeys([]string{"b", "a", "b"}))
}
