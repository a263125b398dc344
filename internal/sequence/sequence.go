// Package sequence issues per-tenant record sequence numbers. Numbers
// start at 1, are strictly increasing across a tenant's history, and are
// never reissued, even after deletions.
package sequence

import (
	"context"

	"github.com/brokerbase/polisdesk/internal/treestore"
)

// Allocator allocates sequence numbers for one counter branch. It leans
// on the tree store's atomic increment, so two concurrent Next calls for
// the same tenant can never observe the same value.
type Allocator struct {
	store  treestore.Store
	branch string
}

func NewAllocator(store treestore.Store, branch string) *Allocator {
	return &Allocator{store: store, branch: branch}
}

// Next returns the next sequence number for tenant. On storage failure
// nothing is allocated and the error wraps treestore.ErrUnavailable.
func (a *Allocator) Next(ctx context.Context, tenant string) (int64, error) {
	return a.store.Incr(ctx, a.branch, tenant)
}

// Current returns the last issued number without allocating, 0 when the
// tenant has never created a record.
func (a *Allocator) Current(ctx context.Context, tenant string) (int64, error) {
	return a.store.Current(ctx, a.branch, tenant)
}
