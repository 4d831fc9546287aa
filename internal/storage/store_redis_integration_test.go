//go:build integration

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront/pkg/platform/sentinel"
	"storefront/pkg/testutil/containers"
)

func TestRedisStoreIntegration(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	kv := NewRedis(rc.Client)

	t.Run("missing key returns not found", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		_, err := kv.Read(ctx, "missing")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("write read delete round trip", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		require.NoError(t, kv.Write(ctx, "cart_7", []byte(`[{"product_id":"a"}]`)))

		raw, err := kv.Read(ctx, "cart_7")
		require.NoError(t, err)
		require.Equal(t, `[{"product_id":"a"}]`, string(raw))

		require.NoError(t, kv.Delete(ctx, "cart_7"))
		_, err = kv.Read(ctx, "cart_7")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		require.NoError(t, kv.Write(ctx, "token", []byte("first")))
		require.NoError(t, kv.Write(ctx, "token", []byte("second")))

		raw, err := kv.Read(ctx, "token")
		require.NoError(t, err)
		require.Equal(t, "second", string(raw))
	})
}
