package viewstate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stealthnet-panel/internal/cache"
	"github.com/magabrotheeeer/stealthnet-panel/internal/config"
)

type page struct {
	IDs   []int  `json:"ids"`
	Error string `json:"error,omitempty"`
}

func setup(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(config.RedisConnection{AddressRedis: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return New(c, time.Minute), mr
}

func TestPutAndGet(t *testing.T) {
	s, mr := setup(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "sid", "tariffs", page{IDs: []int{1, 2}}))
	assert.True(t, mr.Exists("view:sid:tariffs"))

	var got page
	found, err := s.Get(ctx, "sid", "tariffs", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []int{1, 2}, got.IDs)

	found, err = s.Get(ctx, "other", "tariffs", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPut_Expires(t *testing.T) {
	s, mr := setup(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "sid", "users", page{IDs: []int{1}}))

	mr.FastForward(2 * time.Minute)

	var got page
	found, err := s.Get(ctx, "sid", "users", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPut_CancelledContextDiscards(t *testing.T) {
	s, mr := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Put(ctx, "sid", "users", page{IDs: []int{1}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, mr.Exists("view:sid:users"))
}

func TestUpdate(t *testing.T) {
	s, _ := setup(t)
	ctx := context.Background()

	next, err := Update(ctx, s, "sid", "promos", func(p page) page {
		p.IDs = append(p.IDs, 5)
		return p
	})
	require.NoError(t, err)
	assert.Equal(t, []int{5}, next.IDs)

	next, err = Update(ctx, s, "sid", "promos", func(p page) page {
		p.IDs = append(p.IDs, 6)
		return p
	})
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, next.IDs)
}

func TestDrop(t *testing.T) {
	s, mr := setup(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "sid", "users", page{}))
	require.NoError(t, s.Drop(ctx, "sid", "users"))
	assert.False(t, mr.Exists("view:sid:users"))
}
