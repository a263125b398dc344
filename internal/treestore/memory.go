package treestore

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store for tests and dev mode. The mutex
// gives it the same serialization guarantee for Incr that Redis provides
// server-side.
type MemoryStore struct {
	mu       sync.Mutex
	nodes    map[string]map[string]map[string][]byte // branch -> tenant -> key -> value
	counters map[string]map[string]int64             // branch -> tenant -> value
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes:    make(map[string]map[string]map[string][]byte),
		counters: make(map[string]map[string]int64),
	}
}

func (s *MemoryStore) node(branch, tenant string) map[string][]byte {
	tenants, ok := s.nodes[branch]
	if !ok {
		tenants = make(map[string]map[string][]byte)
		s.nodes[branch] = tenants
	}
	keys, ok := tenants[tenant]
	if !ok {
		keys = make(map[string][]byte)
		tenants[tenant] = keys
	}
	return keys
}

func (s *MemoryStore) Get(_ context.Context, branch, tenant, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.node(branch, tenant)[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, branch, tenant, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.node(branch, tenant)[key] = stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, branch, tenant, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := s.node(branch, tenant)
	if _, ok := keys[key]; !ok {
		return ErrNotFound
	}
	delete(keys, key)
	return nil
}

func (s *MemoryStore) Children(_ context.Context, branch, tenant string) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := s.node(branch, tenant)
	children := make(map[string][]byte, len(keys))
	for key, value := range keys {
		out := make([]byte, len(value))
		copy(out, value)
		children[key] = out
	}
	return children, nil
}

func (s *MemoryStore) Count(_ context.Context, branch, tenant string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.node(branch, tenant))), nil
}

func (s *MemoryStore) Incr(_ context.Context, branch, tenant string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tenants, ok := s.counters[branch]
	if !ok {
		tenants = make(map[string]int64)
		s.counters[branch] = tenants
	}
	tenants[tenant]++
	return tenants[tenant], nil
}

func (s *MemoryStore) Current(_ context.Context, branch, tenant string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[branch][tenant], nil
}

func (s *MemoryStore) Tenants(_ context.Context, branch string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Data writes land in nodes, counter writes in counters; a branch
	// can have tenants in either.
	seen := make(map[string]bool)
	for tenant := range s.nodes[branch] {
		seen[tenant] = true
	}
	for tenant := range s.counters[branch] {
		seen[tenant] = true
	}
	tenants := make([]string, 0, len(seen))
	for tenant := range seen {
		tenants = append(tenants, tenant)
	}
	sort.Strings(tenants)
	return tenants, nil
}
