// Package treestore provides the hierarchical key-value store backing
// tenant record collections and sequence counters. Records live under
// {branch}/{tenant}/{id}; counters live under {branch}/{tenant}. The
// production driver is Redis; a memory driver covers tests and dev mode.
package treestore

import (
	"context"
	"errors"
)

// Branch names, one tree per record kind plus its counter tree. The
// company branch holds a single profile document per tenant.
const (
	BranchCustomerData     = "customer_data"
	BranchCustomerCounters = "customer_counters"
	BranchPropertyData     = "property_data"
	BranchPropertyCounters = "property_counters"
	BranchCompanyProfiles  = "company_profiles"
)

var (
	// ErrNotFound is returned when a key has no value.
	ErrNotFound = errors.New("treestore: not found")
	// ErrUnavailable wraps transport or backend failures. Callers surface
	// it as a retryable storage error and never retry internally.
	ErrUnavailable = errors.New("treestore: unavailable")
)

// Store is the persistence collaborator consumed by the record services.
//
// Set writes the whole value for a key in one operation, so a merged
// record is persisted atomically or not at all. Incr is the atomic
// increment-or-initialize primitive sequence allocation relies on: two
// concurrent calls for the same (branch, tenant) must never observe the
// same value.
type Store interface {
	Get(ctx context.Context, branch, tenant, key string) ([]byte, error)
	Set(ctx context.Context, branch, tenant, key string, value []byte) error
	Delete(ctx context.Context, branch, tenant, key string) error
	Children(ctx context.Context, branch, tenant string) (map[string][]byte, error)
	Count(ctx context.Context, branch, tenant string) (int64, error)

	Incr(ctx context.Context, branch, tenant string) (int64, error)
	Current(ctx context.Context, branch, tenant string) (int64, error)

	// Tenants lists tenant handles that have a node under branch.
	Tenants(ctx context.Context, branch string) ([]string, error)
}
