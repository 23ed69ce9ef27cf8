package blob

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"cpnotes/pkg/errs"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "cache", "avatar/alice.txt")
	require.Equal(t, errs.KindNotFound, errs.KindOf(err))

	require.NoError(t, s.Put(ctx, "cache", "avatar/alice.txt", []byte("payload"), "text/plain"))
	data, err := s.Get(ctx, "cache", "avatar/alice.txt")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), data)
}

func TestMemoryStorePutCopiesData(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	buf := []byte("original")
	require.NoError(t, s.Put(ctx, "cache", "k", buf, ""))
	buf[0] = 'X'

	data, err := s.Get(ctx, "cache", "k")
	require.NoError(t, err)
	require.Equal(t, []byte("original"), data)
}

// MemoryStore backs concurrent HTTP handlers when Redis is not
// configured, so parallel readers and writers must be safe.
func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		path := fmt.Sprintf("avatar/user%d.txt", i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				require.NoError(t, s.Put(ctx, "cache", path, []byte("v"), ""))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if data, err := s.Get(ctx, "cache", path); err == nil {
					require.Equal(t, []byte("v"), data)
				}
			}
		}()
	}
	wg.Wait()
}
