//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journal-directory-backend/internal/ratelimit"
	"journal-directory-backend/internal/testutil/containers"
)

func TestRedisLimiter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.NewRedisContainer(t)
	l := ratelimit.NewRedisLimiter(rc.Client, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "login:ana@example.org")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "login:ana@example.org")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Reset(ctx, "login:ana@example.org"))
	ok, err = l.Allow(ctx, "login:ana@example.org")
	require.NoError(t, err)
	assert.True(t, ok)
}
