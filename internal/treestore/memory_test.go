package treestore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, BranchCustomerData, "eko", "eko-1", []byte(`{"name":"Budi"}`)))

	value, err := store.Get(ctx, BranchCustomerData, "eko", "eko-1")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Budi"}`, string(value))

	_, err = store.Get(ctx, BranchCustomerData, "eko", "eko-2")
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := store.Count(ctx, BranchCustomerData, "eko")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, store.Delete(ctx, BranchCustomerData, "eko", "eko-1"))
	assert.ErrorIs(t, store.Delete(ctx, BranchCustomerData, "eko", "eko-1"), ErrNotFound)
}

func TestMemoryStoreTenantIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, BranchCustomerData, "alice", "alice-1", []byte(`{}`)))
	require.NoError(t, store.Set(ctx, BranchCustomerData, "bob", "bob-1", []byte(`{}`)))

	children, err := store.Children(ctx, BranchCustomerData, "alice")
	require.NoError(t, err)
	assert.Len(t, children, 1)
	assert.Contains(t, children, "alice-1")
}

func TestMemoryStoreIncrSerializes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const workers = 32
	seen := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := store.Incr(ctx, BranchCustomerCounters, "eko")
			assert.NoError(t, err)
			seen <- n
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]bool, workers)
	for n := range seen {
		assert.False(t, unique[n], "sequence %d issued twice", n)
		unique[n] = true
	}
	assert.Len(t, unique, workers)

	current, err := store.Current(ctx, BranchCustomerCounters, "eko")
	require.NoError(t, err)
	assert.Equal(t, int64(workers), current)
}

func TestMemoryStoreTenants(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Incr(ctx, BranchPropertyCounters, "eko")
	require.NoError(t, err)
	_, err = store.Incr(ctx, BranchPropertyCounters, "sari")
	require.NoError(t, err)

	tenants, err := store.Tenants(ctx, BranchPropertyCounters)
	require.NoError(t, err)
	assert.Equal(t, []string{"eko", "sari"}, tenants)
}

func TestMemoryStoreTenantsSeesDataWrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// A record written without ever touching the counter branch must
	// still surface its tenant, or the sweeper skips it.
	require.NoError(t, store.Set(ctx, BranchCustomerData, "eko", "eko-1", []byte(`{}`)))
	_, err := store.Incr(ctx, BranchCustomerCounters, "sari")
	require.NoError(t, err)

	tenants, err := store.Tenants(ctx, BranchCustomerData)
	require.NoError(t, err)
	assert.Equal(t, []string{"eko"}, tenants)

	tenants, err = store.Tenants(ctx, BranchCustomerCounters)
	require.NoError(t, err)
	assert.Equal(t, []string{"sari"}, tenants)
}
