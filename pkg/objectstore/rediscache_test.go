package objectstore

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func dialRedis(t *testing.T) string {
	addr := "localhost:6379"
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Skipf("skipping Redis integration test: %v", err)
	}
	conn.Close()
	return addr
}

func TestCachedBlobStore_Integration(t *testing.T) {
	addr := dialRedis(t)
	ctx := context.Background()

	backend, err := NewDiskBlobStore(t.TempDir())
	require.NoError(t, err)

	cached, err := NewCachedBlobStore(ctx, backend, RedisCacheConfig{
		RedisURL: fmt.Sprintf("redis://%s/0", addr),
		TTL:      time.Minute,
	})
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "blob.bin")
	require.NoError(t, os.WriteFile(src, []byte("cached payload"), 0o644))

	hash := "cafebabe00112233445566778899aabb"
	require.NoError(t, cached.PutFile(ctx, hash, src, nil))

	has, err := cached.Has(ctx, hash)
	require.NoError(t, err)
	require.True(t, has)

	dst := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, cached.GetFile(ctx, hash, dst, nil))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "cached payload", string(got))
}
