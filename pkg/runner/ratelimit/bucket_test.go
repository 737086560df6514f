package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketDisabledWhenRPMZero(t *testing.T) {
	b := NewBucket(0)
	assert.False(t, b.Enabled())

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	for i := 0; i < 1000; i++ {
		require.NoError(t, b.Acquire(ctx))
	}
}

func TestBucketAcquireBlocksUntilRefill(t *testing.T) {
	// 60 rpm => 1 token/sec refill, burst 60.
	b := NewBucket(60)
	assert.True(t, b.Enabled())

	ctx := context.Background()
	// Drain the initial burst.
	for i := 0; i < 60; i++ {
		require.NoError(t, b.Acquire(ctx))
	}

	// The 61st acquire must wait for a refill; a short-deadline context
	// should time out rather than returning immediately.
	shortCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := b.Acquire(shortCtx)
	assert.Error(t, err)
}
