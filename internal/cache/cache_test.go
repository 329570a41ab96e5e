package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory()
	c.now = func() time.Time { return now }

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "forever", []byte("x"), 0))
	now = now.Add(24 * time.Hour)
	_, err = c.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestMemorySetNXActsAsLock(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c := NewMemory()
	c.now = func() time.Time { return now }

	ok, err := c.SetNX(ctx, "lock", 8*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = c.SetNX(ctx, "lock", 8*time.Second)
	assert.False(t, ok)

	now = now.Add(9 * time.Second)
	ok, _ = c.SetNX(ctx, "lock", 8*time.Second)
	assert.True(t, ok)

	require.NoError(t, c.Del(ctx, "lock"))
	ok, _ = c.SetNX(ctx, "lock", time.Second)
	assert.True(t, ok)
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	buf := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", buf, 0))
	buf[0] = 'z'
	got, _ := c.Get(ctx, "k")
	assert.Equal(t, "abc", string(got))
}
