package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/gallery-ui/internal/domain/auth"
)

func TestDemoIdentityStore_WriteOnce(t *testing.T) {
	s := NewDemoIdentityStore()
	ctx := context.Background()

	written, err := s.SaveIfAbsent(ctx, "b1", domainauth.DemoIdentity{ID: "first"})
	require.NoError(t, err)
	assert.True(t, written)

	written, err = s.SaveIfAbsent(ctx, "b1", domainauth.DemoIdentity{ID: "second"})
	require.NoError(t, err)
	assert.False(t, written)

	got, ok, err := s.Get(ctx, "b1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", got.ID)
}

func TestDemoIdentityStore_ConcurrentFirstWrite(t *testing.T) {
	s := NewDemoIdentityStore()
	var writes atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.SaveIfAbsent(context.Background(), "b", domainauth.DemoIdentity{ID: "x"}); ok {
				writes.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), writes.Load())
}

func TestDemoIdentityStore_EmptyBrowserID(t *testing.T) {
	_, err := NewDemoIdentityStore().SaveIfAbsent(context.Background(), "", domainauth.DemoIdentity{})
	require.Error(t, err)
}
