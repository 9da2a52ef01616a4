package loadercache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damlalper/gr-pilot-engine-go/pkg/utils/cache"
)

func TestLoaderCache_Memoizes(t *testing.T) {
	calls := 0
	c := New(WithLoader[string, int](func(key string) (*int, error) {
		calls++
		v := len(key)
		return &v, nil
	}))

	ctx := context.Background()
	got, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 3, *got)

	got, err = c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 3, *got)
	assert.Equal(t, 1, calls)
}

func TestLoaderCache_Invalidate(t *testing.T) {
	calls := 0
	c := New(WithLoader[string, int](func(key string) (*int, error) {
		calls++
		v := calls
		return &v, nil
	}))

	ctx := context.Background()
	_, err := c.Get(ctx, "key")
	require.NoError(t, err)
	c.Invalidate(ctx, "key")
	got, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, 2, *got)
}

func TestLoaderCache_LoaderErrorNotCached(t *testing.T) {
	wantErr := errors.New("db down")
	fail := true
	c := New(WithLoader[string, int](func(key string) (*int, error) {
		if fail {
			return nil, wantErr
		}
		v := 42
		return &v, nil
	}))

	ctx := context.Background()
	_, err := c.Get(ctx, "key")
	assert.ErrorIs(t, err, wantErr)

	fail = false
	got, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, 42, *got)
}

func TestLoaderCache_Expiration(t *testing.T) {
	calls := 0
	c := New(
		WithLoader[string, int](func(key string) (*int, error) {
			calls++
			v := calls
			return &v, nil
		}),
		WithExpiration[string, int](time.Millisecond))

	ctx := context.Background()
	_, err := c.Get(ctx, "key")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	got, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, 2, *got)
}

func TestLoaderCache_NoLoader(t *testing.T) {
	c := New[string, int]()
	_, err := c.Get(context.Background(), "key")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}
