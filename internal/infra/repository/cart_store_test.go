package repository_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
	infraRepo "github.com/FariidCabrera/marketplace-itpuebla1/internal/infra/repository"
	repo "github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"

	"github.com/alicebob/miniredis/v2"
	radix "github.com/mediocregopher/radix/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCartStore(t *testing.T, ttl time.Duration) (*infraRepo.RedisCartStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	pool, err := radix.NewPool("tcp", mr.Addr(), 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })
	return infraRepo.NewRedisCartStore(pool, ttl), mr
}

// 両実装で同じ振る舞いを確認する
func cartStores(t *testing.T) map[string]repo.CartStore {
	redisStore, _ := newRedisCartStore(t, time.Hour)
	return map[string]repo.CartStore{
		"memory": infraRepo.NewMemoryCartStore(),
		"redis":  redisStore,
	}
}

func TestCartStore_AddMergesAndKeepsInsertionOrder(t *testing.T) {
	for name, store := range cartStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Add(ctx, "s1", "p2", 1)
			require.NoError(t, err)
			_, err = store.Add(ctx, "s1", "p1", 2)
			require.NoError(t, err)
			items, err := store.Add(ctx, "s1", "p2", 4)
			require.NoError(t, err)

			want := []model.CartItem{{ProductID: "p2", Quantity: 5}, {ProductID: "p1", Quantity: 2}}
			assert.Equal(t, want, items)

			got, err := store.Get(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestCartStore_SessionsAreIsolatedAndClearable(t *testing.T) {
	for name, store := range cartStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Add(ctx, "a", "p1", 1)
			require.NoError(t, err)
			_, err = store.Add(ctx, "b", "p1", 3)
			require.NoError(t, err)

			require.NoError(t, store.Clear(ctx, "a"))

			a, err := store.Get(ctx, "a")
			require.NoError(t, err)
			assert.NotNil(t, a)
			assert.Empty(t, a)

			b, err := store.Get(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, []model.CartItem{{ProductID: "p1", Quantity: 3}}, b)
		})
	}
}

func TestCartStore_ConcurrentAddsAreNotLost(t *testing.T) {
	for name, store := range cartStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			const workers = 8

			var wg sync.WaitGroup
			errs := make(chan error, workers)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := store.Add(ctx, "shared", "p1", 1)
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			items, err := store.Get(ctx, "shared")
			require.NoError(t, err)
			assert.Equal(t, []model.CartItem{{ProductID: "p1", Quantity: workers}}, items)
		})
	}
}

func TestCartStore_AddOverflowLeavesCartUnchanged(t *testing.T) {
	for name, store := range cartStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Add(ctx, "s", "p1", math.MaxInt64)
			require.NoError(t, err)
			_, err = store.Add(ctx, "s", "p1", math.MaxInt64)
			assert.ErrorIs(t, err, repo.ErrCartQuantityOverflow)
			_, err = store.Add(ctx, "s", "p1", 1)
			assert.ErrorIs(t, err, repo.ErrCartQuantityOverflow)

			items, err := store.Get(ctx, "s")
			require.NoError(t, err)
			assert.Equal(t, []model.CartItem{{ProductID: "p1", Quantity: math.MaxInt64}}, items)

			// 他の商品は追加できる
			items, err = store.Add(ctx, "s", "p2", 1)
			require.NoError(t, err)
			assert.Len(t, items, 2)
		})
	}
}

func TestMemoryCartStore_ReturnsCopies(t *testing.T) {
	store := infraRepo.NewMemoryCartStore()
	ctx := context.Background()

	items, err := store.Add(ctx, "s", "p1", 1)
	require.NoError(t, err)
	items[0].Quantity = 99

	got, err := store.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got[0].Quantity)
}

func TestRedisCartStore_SetsTTL(t *testing.T) {
	store, mr := newRedisCartStore(t, 30*time.Minute)
	ctx := context.Background()

	_, err := store.Add(ctx, "s", "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, mr.TTL("cart:s"))

	// 期限切れで空になる
	mr.FastForward(31 * time.Minute)
	items, err := store.Get(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRedisCartStore_CorruptValue(t *testing.T) {
	store, mr := newRedisCartStore(t, time.Hour)
	require.NoError(t, mr.Set("cart:s", "{not json"))

	_, err := store.Get(context.Background(), "s")
	assert.Error(t, err)

	_, err = store.Add(context.Background(), "s", "p1", 1)
	assert.Error(t, err)
}
